package entity

const (
	FeatureUserAgent = "userAgent"
	FeatureAutofill  = "autofill"
	FeatureNetPVpn   = "netPVpn"
)

type FeatureToggle struct {
	Name                string `bson:"_id"`
	Enabled             bool   `bson:"enabled"`
	MinSupportedVersion *int   `bson:"min_supported_version,omitempty"`
}

type FeatureException struct {
	Feature string `bson:"feature"`
	Domain  string `bson:"domain"`
	Reason  string `bson:"reason"`
}
