package hcaptcha

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const verifyURL = "https://hcaptcha.com/siteverify"

type Response struct {
	Success     bool     `json:"success"`
	ChallengeTS string   `json:"challenge_ts"`
	Hostname    string   `json:"hostname"`
	ErrorCodes  []string `json:"error-codes"`
}

// Verifier checks hCaptcha tokens. A verifier without a secret accepts
// every request, so installations without captcha keys still work.
type Verifier struct {
	Secret     string
	SiteKey    string
	URL        string
	HTTPClient *http.Client
}

func NewVerifier(siteKey, secret string) *Verifier {
	return &Verifier{Secret: secret, SiteKey: siteKey, URL: verifyURL, HTTPClient: http.DefaultClient}
}

// Enabled reports whether tokens are actually checked.
func (v *Verifier) Enabled() bool {
	return v != nil && v.Secret != ""
}

func (v *Verifier) Verify(token string) (bool, error) {
	if !v.Enabled() {
		return true, nil
	}
	if token == "" {
		return false, errors.New("hCaptcha token is empty")
	}

	formData := url.Values{
		"secret":   {v.Secret},
		"response": {token},
	}

	resp, err := v.HTTPClient.PostForm(v.URL, formData)
	if err != nil {
		return false, fmt.Errorf("failed to send request to hCaptcha API: %w", err)
	}
	defer resp.Body.Close()

	var response Response
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return false, fmt.Errorf("failed to decode hCaptcha API response: %w", err)
	}

	if !response.Success {
		errorMsg := "hCaptcha validation failed"
		if len(response.ErrorCodes) > 0 {
			errorMsg = errorMsg + ": " + strings.Join(response.ErrorCodes, ", ")
		}
		return false, errors.New(errorMsg)
	}

	return true, nil
}
