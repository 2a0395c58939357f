package transport

import (
	"context"
	"errors"
	"fmt"
	"net"

	"go.uber.org/zap"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mark47B/browser-data-service/app/domain/entity"
	"github.com/mark47B/browser-data-service/app/infrastructure/metrics"
	"github.com/mark47B/browser-data-service/app/usecase"
)

type gRPCServer struct {
	history  *usecase.HistoryService
	trusted  *usecase.TrustedSites
	gate     *usecase.FeatureGate
	privacy  *usecase.PrivacyConfigService
	leader   *usecase.ReplicaLeaderService
	cohort   *usecase.CohortUpdater
	autofill AutofillHandlers
	logger   *zap.Logger
}

func NewgRPCServer(
	history *usecase.HistoryService,
	trusted *usecase.TrustedSites,
	gate *usecase.FeatureGate,
	privacy *usecase.PrivacyConfigService,
	leader *usecase.ReplicaLeaderService,
	cohort *usecase.CohortUpdater,
	autofill AutofillHandlers,
	logger *zap.Logger) *gRPCServer {

	return &gRPCServer{
		history:  history,
		trusted:  trusted,
		gate:     gate,
		privacy:  privacy,
		leader:   leader,
		cohort:   cohort,
		autofill: autofill,
		logger:   logger.Named("gRPC"),
	}
}

func newGRPCServer(server *gRPCServer) *grpc.Server {
	s := grpc.NewServer()
	RegisterBrowserDataServer(s, server)
	reflection.Register(s)
	return s
}

func StartgRPCServer(ctx context.Context, addr string, server *gRPCServer) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	defer lis.Close()
	return serve(ctx, lis, server)
}

func serve(ctx context.Context, lis net.Listener, server *gRPCServer) error {
	s := newGRPCServer(server)
	errCh := make(chan error, 1)

	go func() {
		server.logger.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
		if err := s.Serve(lis); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		server.logger.Info("context canceled, shutting down gRPC gracefully")
		s.GracefulStop()
	case err := <-errCh:
		server.logger.Error("gRPC server error", zap.Error(err))
		return err
	}
	return nil
}

func (s *gRPCServer) GetHistory(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	entries, err := s.history.GetHistory(ctx)
	if err != nil {
		return nil, s.internal("get history", err)
	}
	out, err := toHistoryDTO(entries)
	if err != nil {
		return nil, s.internal("map history", err)
	}
	return out, nil
}

func (s *gRPCServer) SaveToHistory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	visit, err := toSaveVisitRequest(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := s.history.SaveToHistory(ctx, visit.URL, visit.Title, visit.Query, visit.IsSerp); err != nil {
		return nil, s.internal("save to history", err)
	}
	return empty(), nil
}

func (s *gRPCServer) AddTrustedSite(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	domain, err := stringField(req, "domain")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	s.trusted.Add(domain)
	return empty(), nil
}

func (s *gRPCServer) IsTrustedSite(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	domain, err := stringField(req, "domain")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return structpb.NewStruct(map[string]any{"trusted": s.trusted.Contains(domain)})
}

func (s *gRPCServer) GetFeatureToggle(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	feature, err := stringField(req, "feature")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	enabled, err := s.gate.IsEnabled(ctx, feature)
	if err != nil {
		return nil, s.internal("feature enabled", err)
	}

	var exception *bool
	if pageURL := req.GetFields()["url"].GetStringValue(); pageURL != "" {
		isException, err := s.gate.IsAnException(ctx, feature, pageURL)
		if err != nil {
			return nil, s.internal("feature exception", err)
		}
		exception = &isException
	}
	return toFeatureToggleDTO(feature, enabled, exception)
}

// RefreshPrivacyConfig runs only on the leader; other replicas answer with
// the leader address so the caller can retry there.
func (s *gRPCServer) RefreshPrivacyConfig(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	if !s.leader.AmILeader() {
		leaderAddr, err := s.leader.WhoLeader(ctx)

		if !s.leader.AmILeader() {
			if err != nil {
				s.logger.Warn("who leader", zap.Error(err))
			}
			st := status.New(codes.FailedPrecondition, "request should be sent to Leader")

			errInfo := &errdetails.ErrorInfo{
				Reason:   "REPLICA_NOT_LEADER",
				Domain:   "browser-data",
				Metadata: map[string]string{"leader_address": leaderAddr},
			}
			st, err = st.WithDetails(errInfo)
			if err != nil {
				return nil, status.Errorf(codes.Internal, "failed to create error details: %v", err)
			}
			return nil, st.Err()
		}
	}

	stored, err := s.privacy.Refresh(ctx)
	if err != nil {
		return nil, s.internal("refresh privacy config", err)
	}
	return structpb.NewStruct(map[string]any{"stored": stored})
}

func (s *gRPCServer) VpnStarted(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	if err := s.cohort.OnVPNStarted(ctx); err != nil {
		return nil, s.internal("vpn started", err)
	}
	return empty(), nil
}

// GetAutofillData opens a page request that a later credential selection
// answers.
func (s *gRPCServer) GetAutofillData(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	origin, err := stringField(req, "origin")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	enabled, err := s.gate.IsEnabled(ctx, entity.FeatureAutofill)
	if err != nil {
		return nil, s.internal("autofill enabled", err)
	}
	if enabled {
		excepted, err := s.gate.IsAnException(ctx, entity.FeatureAutofill, origin)
		if err != nil {
			return nil, s.internal("autofill exception", err)
		}
		enabled = !excepted
	}
	if !enabled {
		return nil, status.Errorf(codes.FailedPrecondition, "autofill is disabled for %s", origin)
	}

	reply := s.autofill.Inbox.NewReply()
	requestID := s.autofill.Replies.StoreReply(reply)
	s.autofill.Inbox.Track(requestID, reply)
	return toAutofillOutputDTO(requestID, nil, nil)
}

func (s *gRPCServer) ProcessCredentialSelection(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	result, auth, err := toCredentialSelection(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := s.autofill.Credentials.ProcessResult(withReportedAuth(ctx, auth), result); err != nil {
		return nil, s.autofillError("credential selection", err)
	}
	return s.takeAutofillOutput(result.URLRequest.RequestID)
}

func (s *gRPCServer) EmailGetAlias(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	origin, err := stringField(req, "origin")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	reply := s.autofill.Inbox.NewReply()
	requestID, err := s.autofill.EmailAlias.OnPostMessage(ctx, req.GetFields()["url"].GetStringValue(), origin, reply)
	if err != nil {
		return nil, s.internal("email get alias", err)
	}
	if requestID == "" {
		return toAutofillOutputDTO("", nil, nil)
	}
	s.autofill.Inbox.Track(requestID, reply)
	return s.takeAutofillOutput(requestID)
}

func (s *gRPCServer) ProcessEmailSignUp(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	result, err := toEmailSignUpResult(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := s.autofill.EmailPrompt.ProcessResult(ctx, result); err != nil {
		return nil, s.autofillError("email sign up", err)
	}
	return s.takeAutofillOutput(result.URLRequest.RequestID)
}

func (s *gRPCServer) takeAutofillOutput(requestID string) (*structpb.Struct, error) {
	messages, prompts := s.autofill.Inbox.Take(requestID)
	return toAutofillOutputDTO(requestID, messages, prompts)
}

func (s *gRPCServer) autofillError(op string, err error) error {
	if errors.Is(err, entity.ErrUnknownRequest) {
		return status.Error(codes.NotFound, err.Error())
	}
	return s.internal(op, err)
}

func (s *gRPCServer) internal(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return status.FromContextError(err).Err()
	}
	metrics.ErrorsTotal.WithLabelValues("rpc").Inc()
	s.logger.Error(op, zap.Error(err))
	return status.Errorf(codes.Internal, "%s: %v", op, err)
}
