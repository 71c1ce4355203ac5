package mainconfig

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"

	appconfig "github.com/brightsmile/dental-booking-api/internal/config"
)

// LoadAWSConfig centralizes AWS SDK initialization so SES wiring stays in one
// place.
func LoadAWSConfig(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	return config.LoadDefaultConfig(ctx, config.WithRegion(cfg.AWSRegion))
}
