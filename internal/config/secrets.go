// Package config provides configuration management for the Value Better application.
package config

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretsOverlay represents the structure of secrets stored in AWS Secrets Manager
type SecretsOverlay struct {
	DatabasePassword  string `json:"database_password"`
	DataSourceAPIKey  string `json:"data_source_api_key"`
	ClassifierAPIKey  string `json:"classifier_api_key"`
}

// LoadSecretsFromAWS fetches the secrets overlay and applies it onto the
// loaded configuration. Empty secret fields leave the config value intact.
func LoadSecretsFromAWS(cfg *Config, region, secretName string) error {
	secrets, err := fetchSecretsFromAWS(context.Background(), region, secretName)
	if err != nil {
		return err
	}

	if secrets.DatabasePassword != "" {
		cfg.Database.Password = secrets.DatabasePassword
	}
	if secrets.DataSourceAPIKey != "" {
		cfg.DataSource.APIKey = secrets.DataSourceAPIKey
	}
	if secrets.ClassifierAPIKey != "" {
		cfg.Classifier.APIKey = secrets.ClassifierAPIKey
	}
	return nil
}

func fetchSecretsFromAWS(ctx context.Context, region, secretName string) (*SecretsOverlay, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := secretsmanager.NewFromConfig(awsCfg)
	result, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get secret from AWS Secrets Manager: %w", err)
	}

	return parseSecretData(result)
}

func parseSecretData(result *secretsmanager.GetSecretValueOutput) (*SecretsOverlay, error) {
	var secrets SecretsOverlay
	switch {
	case result.SecretString != nil:
		if err := json.Unmarshal([]byte(*result.SecretString), &secrets); err != nil {
			return nil, fmt.Errorf("failed to parse secret JSON: %w", err)
		}
	case result.SecretBinary != nil:
		if err := json.Unmarshal(result.SecretBinary, &secrets); err != nil {
			return nil, fmt.Errorf("failed to parse secret binary: %w", err)
		}
	default:
		return nil, fmt.Errorf("no secret data found in AWS Secrets Manager")
	}
	return &secrets, nil
}
