package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mark47B/browser-data-service/app/infrastructure/transport"
)

func main() {
	app := &cli.Command{
		Name:  "browser-data",
		Usage: "call a browser data service replica",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Value: "localhost:1234", Usage: "replica gRPC address"},
			&cli.DurationFlag{Name: "timeout", Value: 10 * time.Second},
		},
		Commands: []*cli.Command{
			{
				Name:  "history",
				Usage: "list history entries",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return call(ctx, cmd, "GetHistory", nil)
				},
			},
			{
				Name:      "visit",
				Usage:     "record a visit",
				ArgsUsage: "<url>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title"},
					&cli.StringFlag{Name: "query"},
					&cli.BoolFlag{Name: "serp"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return call(ctx, cmd, "SaveToHistory", map[string]any{
						"url":    cmd.Args().First(),
						"title":  cmd.String("title"),
						"query":  cmd.String("query"),
						"isSerp": cmd.Bool("serp"),
					})
				},
			},
			{
				Name:      "trust",
				Usage:     "add a trusted site",
				ArgsUsage: "<domain>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return call(ctx, cmd, "AddTrustedSite", map[string]any{"domain": cmd.Args().First()})
				},
			},
			{
				Name:      "trusted",
				Usage:     "check a trusted site",
				ArgsUsage: "<domain>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return call(ctx, cmd, "IsTrustedSite", map[string]any{"domain": cmd.Args().First()})
				},
			},
			{
				Name:      "feature",
				Usage:     "show a feature toggle",
				ArgsUsage: "<feature> [url]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return call(ctx, cmd, "GetFeatureToggle", map[string]any{
						"feature": cmd.Args().Get(0),
						"url":     cmd.Args().Get(1),
					})
				},
			},
			{
				Name:  "refresh",
				Usage: "refresh the privacy config on the leader",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return call(ctx, cmd, "RefreshPrivacyConfig", nil)
				},
			},
			{
				Name:      "autofill-data",
				Usage:     "open an autofill request for a page",
				ArgsUsage: "<origin> [url]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return call(ctx, cmd, "GetAutofillData", map[string]any{
						"origin": cmd.Args().Get(0),
						"url":    cmd.Args().Get(1),
					})
				},
			},
			{
				Name:      "select-credentials",
				Usage:     "answer an autofill request with the chosen login",
				ArgsUsage: "<request id>",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "id"},
					&cli.StringFlag{Name: "username"},
					&cli.StringFlag{Name: "password"},
					&cli.BoolFlag{Name: "cancel"},
					&cli.StringFlag{Name: "auth", Value: "success", Usage: "success, cancelled or error"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					req := map[string]any{
						"requestId":      cmd.Args().First(),
						"cancelled":      cmd.Bool("cancel"),
						"authentication": cmd.String("auth"),
					}
					if cmd.IsSet("id") {
						req["credentials"] = map[string]any{
							"id":       cmd.Int64("id"),
							"username": cmd.String("username"),
							"password": cmd.String("password"),
						}
					}
					return call(ctx, cmd, "ProcessCredentialSelection", req)
				},
			},
			{
				Name:      "email-alias",
				Usage:     "ask for a private email alias",
				ArgsUsage: "<origin> [url]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return call(ctx, cmd, "EmailGetAlias", map[string]any{
						"origin": cmd.Args().Get(0),
						"url":    cmd.Args().Get(1),
					})
				},
			},
			{
				Name:      "email-signup",
				Usage:     "answer the email protection prompt",
				ArgsUsage: "<request id> <signUp|cancel|doNotShowAgain>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return call(ctx, cmd, "ProcessEmailSignUp", map[string]any{
						"requestId": cmd.Args().Get(0),
						"choice":    cmd.Args().Get(1),
					})
				},
			},
			{
				Name:  "vpn-started",
				Usage: "report a VPN start",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return call(ctx, cmd, "VpnStarted", nil)
				},
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func call(ctx context.Context, cmd *cli.Command, method string, req map[string]any) error {
	root := cmd.Root()
	ctx, cancel := context.WithTimeout(ctx, root.Duration("timeout"))
	defer cancel()

	conn, err := grpc.NewClient(root.String("addr"), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	resp, err := transport.NewBrowserDataClient(conn).Call(ctx, method, req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	return printStruct(resp)
}

func printStruct(s *structpb.Struct) error {
	out, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(s)
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
