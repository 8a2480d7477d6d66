package commands

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/megaplex/realestate/internal/cli/auth"
	"github.com/megaplex/realestate/internal/cli/client"
)

// DefaultServer is used when neither --server nor REALESTATE_SERVER is set
const DefaultServer = "http://localhost:5000"

// Env carries what every command needs. Tests swap the store and HTTP client.
type Env struct {
	Server     string
	Sessions   auth.SessionStore
	HTTPClient *http.Client
	Out        io.Writer
	In         io.Reader
}

// NewEnv returns the production environment
func NewEnv() *Env {
	server := os.Getenv("REALESTATE_SERVER")
	if server == "" {
		server = DefaultServer
	}
	return &Env{
		Server:   server,
		Sessions: auth.Default,
		Out:      os.Stdout,
		In:       os.Stdin,
	}
}

// newClient builds an API client without a session
func (e *Env) newClient() *client.Client {
	apiClient := client.New(e.Server)
	if e.HTTPClient != nil {
		apiClient.SetHTTPClient(e.HTTPClient)
	}
	return apiClient
}

// authedClient builds an API client carrying the stored session
func (e *Env) authedClient() (*client.Client, error) {
	session, err := e.Sessions.LoadSession(e.Server)
	if err != nil {
		return nil, err
	}

	apiClient := e.newClient()
	if err := apiClient.SetSession(session); err != nil {
		return nil, err
	}
	return apiClient, nil
}

// wrapAuthError forgets a rejected session so the next command asks for login
func (e *Env) wrapAuthError(err error) error {
	if errors.Is(err, client.ErrUnauthorized) {
		if delErr := e.Sessions.DeleteSession(e.Server); delErr != nil {
			return fmt.Errorf("%w (also failed to clear stored session: %v)", err, delErr)
		}
	}
	return err
}
