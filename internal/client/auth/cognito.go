package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"

	"github.com/dmitrijs2005/fragments-ui/internal/client/config"
	"github.com/dmitrijs2005/fragments-ui/internal/client/models"
	"github.com/dmitrijs2005/fragments-ui/internal/common"
)

// cognitoAPI is the part of the Cognito user pool API the provider calls.
type cognitoAPI interface {
	InitiateAuth(ctx context.Context, in *cip.InitiateAuthInput, optFns ...func(*cip.Options)) (*cip.InitiateAuthOutput, error)
	GlobalSignOut(ctx context.Context, in *cip.GlobalSignOutInput, optFns ...func(*cip.Options)) (*cip.GlobalSignOutOutput, error)
}

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newCognitoFromConfig = func(cfg aws.Config, optFns ...func(*cip.Options)) cognitoAPI {
		return cip.NewFromConfig(cfg, optFns...)
	}
)

// CognitoProvider signs in against an Amazon Cognito user pool app client
// with the USER_PASSWORD_AUTH flow.
type CognitoProvider struct {
	api          cognitoAPI
	clientID     string
	clientSecret string
	issuer       string
	now          func() time.Time
}

// NewCognitoProvider builds a provider for the app client configured in cfg.
// Cognito's auth operations are unsigned, so no AWS credentials are needed.
func NewCognitoProvider(ctx context.Context, cfg *config.Config) (*CognitoProvider, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(cfg.CognitoRegion),
		awsconfig.WithCredentialsProvider(aws.AnonymousCredentials{}),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &CognitoProvider{
		api:          newCognitoFromConfig(awsCfg),
		clientID:     cfg.CognitoClientID,
		clientSecret: cfg.CognitoClientSecret,
		issuer:       cfg.CognitoIssuer(),
		now:          time.Now,
	}, nil
}

func (p *CognitoProvider) Name() string { return config.ProviderCognito }

func (p *CognitoProvider) SignIn(ctx context.Context, username string, password []byte) (*models.Session, error) {
	params := map[string]string{
		"USERNAME": username,
		"PASSWORD": string(password),
	}
	if p.clientSecret != "" {
		params["SECRET_HASH"] = p.secretHash(username)
	}

	out, err := p.api.InitiateAuth(ctx, &cip.InitiateAuthInput{
		AuthFlow:       types.AuthFlowTypeUserPasswordAuth,
		ClientId:       aws.String(p.clientID),
		AuthParameters: params,
	})
	if err != nil {
		return nil, mapCognitoError(err)
	}

	return p.sessionFrom(out, "")
}

// Refresh trades the refresh token for new ID and access tokens. Cognito
// does not rotate the refresh token on this flow, so the old one is kept.
func (p *CognitoProvider) Refresh(ctx context.Context, s *models.Session) (*models.Session, error) {
	if s.RefreshToken == "" {
		return nil, ErrSessionExpired
	}

	params := map[string]string{"REFRESH_TOKEN": s.RefreshToken}
	if p.clientSecret != "" {
		params["SECRET_HASH"] = p.secretHash(s.Username)
	}

	out, err := p.api.InitiateAuth(ctx, &cip.InitiateAuthInput{
		AuthFlow:       types.AuthFlowTypeRefreshTokenAuth,
		ClientId:       aws.String(p.clientID),
		AuthParameters: params,
	})
	if err != nil {
		if errors.Is(mapCognitoError(err), ErrInvalidCredentials) {
			return nil, ErrSessionExpired
		}
		return nil, mapCognitoError(err)
	}

	return p.sessionFrom(out, s.RefreshToken)
}

// SignOut revokes every token issued for the user.
func (p *CognitoProvider) SignOut(ctx context.Context, s *models.Session) error {
	if s == nil || s.AccessToken == "" {
		return nil
	}
	_, err := p.api.GlobalSignOut(ctx, &cip.GlobalSignOutInput{AccessToken: aws.String(s.AccessToken)})
	if err != nil {
		return mapCognitoError(err)
	}
	return nil
}

func (p *CognitoProvider) sessionFrom(out *cip.InitiateAuthOutput, refreshToken string) (*models.Session, error) {
	if out.ChallengeName != "" {
		return nil, fmt.Errorf("%w: %s", ErrChallengeRequired, out.ChallengeName)
	}
	res := out.AuthenticationResult
	if res == nil || aws.ToString(res.IdToken) == "" {
		return nil, fmt.Errorf("cognito returned no tokens: %w", common.ErrInvalidToken)
	}

	claims, err := parseIDToken(aws.ToString(res.IdToken), p.issuer)
	if err != nil {
		return nil, err
	}

	s := &models.Session{
		Provider:     p.Name(),
		Username:     claims.Username,
		Email:        claims.Email,
		IDToken:      aws.ToString(res.IdToken),
		AccessToken:  aws.ToString(res.AccessToken),
		RefreshToken: aws.ToString(res.RefreshToken),
	}
	if s.RefreshToken == "" {
		s.RefreshToken = refreshToken
	}

	switch {
	case claims.ExpiresAt != nil:
		s.ExpiresAt = claims.ExpiresAt.Time
	case res.ExpiresIn > 0:
		s.ExpiresAt = p.now().Add(time.Duration(res.ExpiresIn) * time.Second)
	}
	return s, nil
}

// secretHash is Base64(HMAC_SHA256(clientSecret, username + clientID)).
func (p *CognitoProvider) secretHash(username string) string {
	mac := hmac.New(sha256.New, []byte(p.clientSecret))
	mac.Write([]byte(username + p.clientID))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func mapCognitoError(err error) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("cognito: %w", err)
	}

	switch apiErr.ErrorCode() {
	case "NotAuthorizedException", "UserNotFoundException":
		return fmt.Errorf("%w: %s", ErrInvalidCredentials, apiErr.ErrorMessage())
	case "UserNotConfirmedException", "PasswordResetRequiredException":
		return fmt.Errorf("%w: %s", ErrChallengeRequired, apiErr.ErrorMessage())
	default:
		return fmt.Errorf("cognito: %w", err)
	}
}
