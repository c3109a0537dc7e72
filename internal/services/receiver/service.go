// Package receiver calls the external eligibility endpoint that confirms a
// destination wallet may receive funds. The check is opaque to the core: a
// non-2xx answer or transport failure aborts the transfer.
package receiver

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

type Service struct {
	client  *http.Client
	baseURL string
	token   string
}

func NewService(baseURL, internalToken string) *Service {
	return &Service{
		client:  &http.Client{Timeout: 5 * time.Second},
		baseURL: baseURL,
		token:   internalToken,
	}
}

// ValidateReceiver asks the validation endpoint whether the wallet is
// eligible to receive funds.
func (s *Service) ValidateReceiver(ctx context.Context, walletID uint) error {
	url := fmt.Sprintf("%s/internal/wallet/%d/validate", s.baseURL, walletID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build receiver validation request: %w", err)
	}
	req.Header.Set("Internal-Token", s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("receiver validation call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("receiver wallet %d rejected by validator (status %d)", walletID, resp.StatusCode)
	}
	return nil
}
