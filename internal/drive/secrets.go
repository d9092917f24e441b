package drive

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// CredentialsFromSecret retrieves the drive service account key
// document from secrets manager.
func CredentialsFromSecret(ctx context.Context, cfg aws.Config, secretName string) ([]byte, error) {
	client := secretsmanager.NewFromConfig(cfg)

	resp, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretName),
	})
	if err != nil {
		return nil, fmt.Errorf("secret %s: %w", secretName, err)
	}

	secret := aws.ToString(resp.SecretString)
	if secret == "" {
		return nil, fmt.Errorf("secret %s: empty secret string", secretName)
	}

	return []byte(secret), nil
}
