package translation

import (
	"context"
	"fmt"
	"sync"

	"github.com/Morwran/yagpt"
)

// YandexBackend translates with YandexGPT. The OAuth token is exchanged for
// an IAM token on the first request.
type YandexBackend struct {
	oauthToken string
	folderID   string

	mu       sync.Mutex
	ya       yagpt.YaGPTFace
	iamToken string
}

// NewYandexBackend creates a YandexGPT backend.
func NewYandexBackend(oauthToken, folderID string) *YandexBackend {
	return &YandexBackend{
		oauthToken: oauthToken,
		folderID:   folderID,
	}
}

// Name returns the backend name.
func (b *YandexBackend) Name() string { return ProviderYandex }

func (b *YandexBackend) connect() (yagpt.YaGPTFace, string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ya != nil {
		return b.ya, b.iamToken, nil
	}

	iam, err := yagpt.NewYaIam(b.oauthToken)
	if err != nil {
		return nil, "", fmt.Errorf("failed to init yandex iam: %w", err)
	}
	resp, err := iam.Create()
	if err != nil {
		return nil, "", fmt.Errorf("failed to create iam token: %w", err)
	}
	ya, err := yagpt.NewYagpt(b.folderID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to init yagpt: %w", err)
	}

	b.ya = ya
	b.iamToken = resp.IamToken
	return b.ya, b.iamToken, nil
}

// Complete sends the prompt to YandexGPT.
func (b *YandexBackend) Complete(ctx context.Context, system, user string) (string, error) {
	if b.oauthToken == "" || b.folderID == "" {
		return "", fmt.Errorf("Yandex %w (need YANDEX_OAUTH_TOKEN and YANDEX_FOLDER_ID)", ErrMissingAPIKey)
	}

	ya, token, err := b.connect()
	if err != nil {
		return "", err
	}

	messages := []yagpt.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}
	resp, err := ya.CompletionWithCtx(ctx, token, messages)
	if err != nil {
		return "", fmt.Errorf("yagpt completion failed: %w", err)
	}
	if resp == nil || len(resp.Alternatives) == 0 {
		return "", fmt.Errorf("yagpt returned empty response")
	}
	return resp.Alternatives[0].Message.Content, nil
}
