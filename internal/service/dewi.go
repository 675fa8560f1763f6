package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	loginPath        = "/api/app/login"
	reservationsPath = "/api/app/club/%d/reservations"
)

// LoginResponse is the credential exchange result. It authorizes exactly one
// reservations fetch and is never cached.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ClubID      uint32 `json:"club_id"`
}

// loginEnvelope tells an absent club_id apart from zero.
type loginEnvelope struct {
	AccessToken string  `json:"access_token"`
	ClubID      *uint32 `json:"club_id"`
}

// ReservationModel carries the facility-local civil date and times.
type ReservationModel struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// UpstreamReservation is a reservation as the booking provider returns it.
type UpstreamReservation struct {
	ID    uint32           `json:"id"`
	Name  string           `json:"name"`
	Model ReservationModel `json:"model"`
}

// ReservationsResponse is the provider's partition of a user's bookings.
type ReservationsResponse struct {
	UpcomingReservations []UpstreamReservation `json:"upcomingReservations"`
	OldReservations      []UpstreamReservation `json:"oldReservations"`
}

// reservationsEnvelope detects absent keys, which plain slices cannot.
type reservationsEnvelope struct {
	UpcomingReservations *[]UpstreamReservation `json:"upcomingReservations"`
	OldReservations      *[]UpstreamReservation `json:"oldReservations"`
}

// DewiClient talks to the Dewi-online facility API of a single club.
type DewiClient struct {
	baseURL   string
	email     string
	password  string
	userAgent string
	client    *http.Client
}

// BaseURL returns the API root for a club, e.g. https://myclub.dewi-online.nl.
func BaseURL(club, providerDomain string) string {
	return fmt.Sprintf("https://%s.%s", club, providerDomain)
}

// NewDewiClient creates a new upstream client. A nil httpClient uses the
// default transport. Either way transparent gzip is switched off, so requests
// carry no headers beyond the ones set here.
func NewDewiClient(baseURL, email, password, userAgent string, httpClient *http.Client) *DewiClient {
	return &DewiClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		email:     email,
		password:  password,
		userAgent: userAgent,
		client:    withoutCompression(httpClient),
	}
}

// withoutCompression returns a copy of c whose transport does not add
// Accept-Encoding. Custom RoundTrippers are left alone.
func withoutCompression(c *http.Client) *http.Client {
	out := &http.Client{}
	if c != nil {
		*out = *c
	}

	base := out.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	if t, ok := base.(*http.Transport); ok {
		t = t.Clone()
		t.DisableCompression = true
		out.Transport = t
	}
	return out
}

// BaseURL returns the API root this client talks to.
func (c *DewiClient) BaseURL() string {
	return c.baseURL
}

// Login exchanges the configured credentials for a bearer token and the
// numeric club id. A 422 means the credentials were rejected.
func (c *DewiClient) Login(ctx context.Context) (*LoginResponse, error) {
	form := url.Values{}
	form.Set("email", c.email)
	form.Set("password", c.password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loginPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create login request: %v", ErrUpstreamFailure, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var envelope loginEnvelope
	if err := c.do(req, "login", &envelope); err != nil {
		return nil, err
	}
	if envelope.AccessToken == "" {
		return nil, inconsistent("login: response has no access_token")
	}
	if envelope.ClubID == nil {
		return nil, inconsistent("login: response has no club_id")
	}
	return &LoginResponse{AccessToken: envelope.AccessToken, ClubID: *envelope.ClubID}, nil
}

// GetReservations fetches the upcoming and old reservations using a token
// obtained from Login.
func (c *DewiClient) GetReservations(ctx context.Context, login *LoginResponse) (*ReservationsResponse, error) {
	// club_id is numeric and thus safe to place in the path.
	endpoint := c.baseURL + fmt.Sprintf(reservationsPath, login.ClubID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create reservations request: %v", ErrUpstreamFailure, err)
	}
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)

	var envelope reservationsEnvelope
	if err := c.do(req, "reservations", &envelope); err != nil {
		return nil, err
	}
	if envelope.UpcomingReservations == nil || envelope.OldReservations == nil {
		return nil, inconsistent("reservations: response is missing upcomingReservations or oldReservations")
	}
	return &ReservationsResponse{
		UpcomingReservations: *envelope.UpcomingReservations,
		OldReservations:      *envelope.OldReservations,
	}, nil
}

// do sends req and decodes a 200 JSON body into out, mapping failures onto
// the error kinds.
func (c *DewiClient) do(req *http.Request, endpoint string, out any) (err error) {
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s request failed: %v", ErrUpstreamFailure, endpoint, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("%w: failed to close %s response body: %v", ErrUpstreamFailure, endpoint, closeErr)
		}
	}()

	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s rejected credentials", ErrAuthenticationFailure, endpoint)
	case resp.StatusCode != http.StatusOK:
		return &UpstreamStatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return inconsistent("%s: failed to decode response: %v", endpoint, err)
	}
	return nil
}
