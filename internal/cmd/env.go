package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"

	"github.com/gastroflow/gastroflow-cli/internal/api"
	"github.com/gastroflow/gastroflow-cli/internal/config"
	"github.com/gastroflow/gastroflow-cli/internal/logging"
	"github.com/gastroflow/gastroflow-cli/internal/session"
)

// Env carries what every command needs. Commands receive it through an
// EnvFunc so persistent flags are parsed before anything is built.
type Env struct {
	Config  *config.Config
	Session *session.Session
	Client  *api.Client
	In      io.Reader
	Out     io.Writer

	closeLog io.Closer
	reader   *bufio.Reader
}

// EnvFunc builds the Env for one command run.
type EnvFunc func() (*Env, error)

// Setup loads the config, opens the log file, restores the session and
// builds the API client. apiURL is the --api-url flag value.
func Setup(apiURL string, in io.Reader, out io.Writer) (*Env, error) {
	cfg, err := config.LoadOrDefault()
	if err != nil {
		return nil, err
	}

	logger, closer, err := logging.Open(cfg.LogPath(), cfg.LogLevel)
	if err != nil {
		logger, closer = logging.Discard(), nil
	}

	sess := session.New(session.StoreFor(cfg), session.NewNotices(8), logger)
	if err := sess.Restore(); err != nil {
		logger.Warn("restore session", "err", err)
	}
	client := api.NewClient(cfg.ResolveAPIURL(apiURL, api.DefaultBaseURL), sess)
	logger.Debug("cli started", "api_url", client.BaseURL(), "logged_in", sess.LoggedIn())

	return &Env{Config: cfg, Session: sess, Client: client, In: in, Out: out, closeLog: closer}, nil
}

// Close releases the log file.
func (e *Env) Close() error {
	if e == nil || e.closeLog == nil {
		return nil
	}
	return e.closeLog.Close()
}

// prompt prints label and reads one trimmed line from In.
func (e *Env) prompt(label string) (string, error) {
	if e.reader == nil {
		e.reader = bufio.NewReader(e.In)
	}
	fmt.Fprint(e.Out, label)
	line, err := e.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.TrimSpace(label), ":"), err)
	}
	return strings.TrimSpace(line), nil
}

// promptSecret is prompt without echo when In is a terminal.
func (e *Env) promptSecret(label string) (string, error) {
	f, ok := e.In.(*os.File)
	if !ok || !term.IsTerminal(f.Fd()) {
		return e.prompt(label)
	}
	fmt.Fprint(e.Out, label)
	secret, err := term.ReadPassword(f.Fd())
	fmt.Fprintln(e.Out)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.TrimSpace(label), ":"), err)
	}
	return strings.TrimSpace(string(secret)), nil
}

// promptDefault is prompt with a value used when the line is empty.
func (e *Env) promptDefault(label, fallback string) (string, error) {
	if fallback != "" {
		label = fmt.Sprintf("%s[%s] ", label, fallback)
	}
	v, err := e.prompt(label)
	if err != nil {
		return "", err
	}
	if v == "" {
		return fallback, nil
	}
	return v, nil
}

func (e *Env) requireLogin() error {
	if !e.Session.LoggedIn() {
		return session.ErrNoToken
	}
	return nil
}
