package middleware

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/constants"
	"storefront/internal/errors"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
)

const (
	defaultSessionName   = "storefront_session"
	defaultSessionMaxAge = 30 * 24 * 60 * 60

	cartSessionKey = "cart_session"
)

// SessionMiddleware keeps a stable cart session id in a signed cookie.
type SessionMiddleware struct {
	store  sessions.Store
	name   string
	logger *slog.Logger
}

// NewSessionMiddleware builds the cookie store from configuration. Without configured keys
// random ones are generated, so sessions do not survive a restart.
func NewSessionMiddleware(cfg *config.Config, logger *slog.Logger) (*SessionMiddleware, error) {
	sessionCfg := cfg.Session
	if sessionCfg == nil {
		sessionCfg = &config.SessionConfig{}
	}

	authKey, err := decodeKey(sessionCfg.AuthKey)
	if err != nil {
		return nil, errors.Wrap(err, "invalid session auth key")
	}
	encryptionKey, err := decodeKey(sessionCfg.EncryptionKey)
	if err != nil {
		return nil, errors.Wrap(err, "invalid session encryption key")
	}
	if authKey == nil {
		logger.Warn("Session keys not configured, generating ephemeral keys")
		authKey = securecookie.GenerateRandomKey(64)
		encryptionKey = securecookie.GenerateRandomKey(32)
	}

	var keyPairs [][]byte
	if encryptionKey != nil {
		keyPairs = [][]byte{authKey, encryptionKey}
	} else {
		keyPairs = [][]byte{authKey}
	}

	store := sessions.NewCookieStore(keyPairs...)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   defaultSessionMaxAge,
		HttpOnly: true,
		Secure:   sessionCfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if sessionCfg.MaxAge > 0 {
		store.Options.MaxAge = sessionCfg.MaxAge
	}

	name := sessionCfg.Name
	if name == "" {
		name = defaultSessionName
	}

	return &SessionMiddleware{store: store, name: name, logger: logger}, nil
}

func decodeKey(encoded string) ([]byte, error) {
	if encoded == "" {
		return nil, nil
	}

	key, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return key, nil
}

// Process loads the cart session id from the cookie, issuing a new one on first visit.
// A cookie that fails verification is replaced rather than rejected.
func (m *SessionMiddleware) Process(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		log := deliverycontext.GetLoggerOrDefault(req.Context(), m.logger)

		session, err := m.store.Get(req, m.name)
		if err != nil {
			log.Debug("Discarding unreadable session cookie", slog.Any("error", err))
		}

		sessionID, _ := session.Values[cartSessionKey].(string)
		if sessionID == "" {
			sessionID = uuid.NewString()
			session.Values[cartSessionKey] = sessionID
			if err := session.Save(req, c.Response()); err != nil {
				return errors.Wrap(err, "failed to save session")
			}
		}

		c.Set(constants.ContextKeySessionID, sessionID)
		deliverycontext.AddLogAttrs(c, m.logger, slog.String("cart_session", sessionID))

		return next(c)
	}
}

// GetSessionID returns the cart session id set by SessionMiddleware.
func GetSessionID(c echo.Context) string {
	sessionID, _ := c.Get(constants.ContextKeySessionID).(string)

	return sessionID
}
