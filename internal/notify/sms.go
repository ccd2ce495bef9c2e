package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/scaninstead/api/internal/config"
	"github.com/scaninstead/api/internal/entity"
)

const twilioAPIBase = "https://api.twilio.com/2010-04-01"

// SMSSender delivers pitch alerts through the Twilio messages API.
type SMSSender struct {
	cfg        config.TwilioConfig
	baseURL    string
	httpClient *http.Client
}

// NewSMSSender builds a Twilio-backed sender.
func NewSMSSender(cfg config.TwilioConfig) *SMSSender {
	return &SMSSender{
		cfg:        cfg,
		baseURL:    twilioAPIBase,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SendPitchAlert texts the homeowner a short alert with the visitor name and
// offer.
func (s *SMSSender) SendPitchAlert(ctx context.Context, owner *entity.Homeowner, pitch *entity.Pitch) error {
	if owner.Phone == nil || *owner.Phone == "" {
		return fmt.Errorf("homeowner %s has no phone number", owner.ID)
	}

	body := fmt.Sprintf("ScanInstead: new pitch from %s. Offer: %s", pitch.VisitorName, truncate(pitch.Offer, 120))

	form := url.Values{}
	form.Set("To", *owner.Phone)
	form.Set("From", s.cfg.FromNumber)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", s.baseURL, s.cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create sms request: %w", err)
	}
	req.SetBasicAuth(s.cfg.AccountSID, s.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call sms API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sms API returned status %d", resp.StatusCode)
	}
	return nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
