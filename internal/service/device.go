package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/ASAFDIGITAL/orderup-asaf-hub/internal/store"
	apperrors "github.com/ASAFDIGITAL/orderup-asaf-hub/pkg/errors"
)

// AuthClient is an OrderClient that can also validate its own credentials.
type AuthClient interface {
	OrderClient
	Authenticate(ctx context.Context) (string, error)
	BaseURL() string
}

// ClientFactory builds an API client for the given base URL and device token.
type ClientFactory func(baseURL, token string) AuthClient

// SettingsStore is the slice of the local store the device service needs.
type SettingsStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// Device owns the login state of the POS device: which API it talks to, under
// which token, and whether the polling agent currently has a client.
type Device struct {
	store   SettingsStore
	agent   *Agent
	factory ClientFactory
	logger  *zap.Logger
}

// DeviceStatus is the current login state.
type DeviceStatus struct {
	LoggedIn   bool   `json:"logged_in"`
	DeviceName string `json:"device_name,omitempty"`
	APIURL     string `json:"api_url,omitempty"`
}

func NewDevice(settings SettingsStore, agent *Agent, factory ClientFactory, logger *zap.Logger) *Device {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Device{store: settings, agent: agent, factory: factory, logger: logger}
}

// Login validates the token against the remote API, persists the credentials
// and attaches the client to the polling agent. Returns the registered device
// name.
func (d *Device) Login(ctx context.Context, apiURL, token string) (string, error) {
	if apiURL == "" || token == "" {
		return "", &apperrors.ErrAuthFailure{Message: "api url and token are required"}
	}

	client := d.factory(apiURL, token)
	name, err := client.Authenticate(ctx)
	if err != nil {
		return "", err
	}

	if err := d.store.Set(store.KeyAPIURL, client.BaseURL()); err != nil {
		return "", err
	}
	if err := d.store.Set(store.KeyDeviceToken, token); err != nil {
		return "", err
	}
	if err := d.store.Set(store.KeyDeviceName, name); err != nil {
		d.logger.Warn("Failed to persist device name", zap.Error(err))
	}

	d.agent.SetClient(client)
	d.logger.Info("Device logged in", zap.String("device", name))
	return name, nil
}

// Logout forgets the device token and detaches the agent. The API URL stays
// so the next login form can be pre-filled.
func (d *Device) Logout() {
	if err := d.store.Delete(store.KeyDeviceToken); err != nil {
		d.logger.Warn("Failed to clear device token", zap.Error(err))
	}
	if err := d.store.Delete(store.KeyDeviceName); err != nil {
		d.logger.Warn("Failed to clear device name", zap.Error(err))
	}
	d.agent.ClearClient()
	d.logger.Info("Device logged out")
}

// Resume restores the session from persisted credentials at startup. A token
// the API rejects is wiped; a network failure keeps the client attached so
// polling retries until the API is reachable again.
func (d *Device) Resume(ctx context.Context) {
	apiURL, okURL := d.store.Get(store.KeyAPIURL)
	token, okToken := d.store.Get(store.KeyDeviceToken)
	if !okURL || !okToken || apiURL == "" || token == "" {
		return
	}

	client := d.factory(apiURL, token)
	name, err := client.Authenticate(ctx)
	if err != nil {
		var authErr *apperrors.ErrAuthFailure
		if errors.As(err, &authErr) {
			d.logger.Warn("Persisted token rejected, clearing credentials", zap.Error(err))
			d.Logout()
			return
		}
		d.logger.Warn("Could not verify persisted credentials, will keep polling", zap.Error(err))
	} else {
		if err := d.store.Set(store.KeyDeviceName, name); err != nil {
			d.logger.Warn("Failed to persist device name", zap.Error(err))
		}
	}
	d.agent.SetClient(client)
}

// Status reports the current login state.
func (d *Device) Status() DeviceStatus {
	name, _ := d.store.Get(store.KeyDeviceName)
	apiURL, _ := d.store.Get(store.KeyAPIURL)
	_, loggedIn := d.store.Get(store.KeyDeviceToken)
	return DeviceStatus{LoggedIn: loggedIn, DeviceName: name, APIURL: apiURL}
}
