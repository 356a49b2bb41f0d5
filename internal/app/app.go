package app

// Application wires the client-side state: one session store owning the
// credential, one API client, one active summary, one history collection.
// There is exactly one of these per process root; components receive it
// explicitly instead of reaching for a hidden global.
type Application struct {
	Config  Config
	Logger  *Logger
	Session *SessionStore
	Client  *Client
	Summary *SummarySession
	History *HistoryCollection
}

func NewApplication(cfg Config) *Application {
	logger := NewLogger(DefaultLogWriter())
	session := NewSessionStore("")
	client := NewClient(cfg.ServerURL, session, logger)
	return &Application{
		Config:  cfg,
		Logger:  logger,
		Session: session,
		Client:  client,
		Summary: NewSummarySession(logger),
		History: NewHistoryCollection(),
	}
}

// Logout clears the credential synchronously and drops every login-gated
// substructure so no stale data survives into the logged-out state.
func (a *Application) Logout() error {
	err := a.Session.SetToken("")
	a.History.Clear()
	return err
}
