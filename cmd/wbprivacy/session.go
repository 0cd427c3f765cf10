package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"wbprivacy/pkg/auth"
	"wbprivacy/pkg/config"
	apperrors "wbprivacy/pkg/errors"
	"wbprivacy/pkg/ui"
	"wbprivacy/pkg/weibo"
)

// resolveSession turns the configured credential sources into a ready
// Session and user id. Sources are checked in order: an explicit cookie
// (flag, env, or config file), a cookie file, a named stored account,
// then the default stored account.
func resolveSession(cfg *config.Config, accountName string) (*auth.Session, string, error) {
	cookie := cfg.Weibo.Cookie
	userID := cfg.Weibo.UserID

	if cookie == "" && cfg.Weibo.CookieFile != "" {
		data, err := os.ReadFile(cfg.Weibo.CookieFile)
		if err != nil {
			return nil, "", apperrors.Wrap(apperrors.ErrorTypeConfig, "reading cookie file", err)
		}
		cookie = strings.TrimSpace(string(data))
	}

	if cookie == "" || accountName != "" {
		manager, err := auth.NewManager()
		if err != nil {
			return nil, "", apperrors.Wrap(apperrors.ErrorTypeConfig, "opening credential store", err)
		}

		var account *auth.Account
		if accountName != "" {
			account, err = manager.Retrieve(accountName)
			if err != nil {
				return nil, "", apperrors.Newf(apperrors.ErrorTypeConfig,
					"account %q not found; run 'wbprivacy auth list' to see stored accounts", accountName)
			}
		} else {
			account, err = manager.RetrieveDefault()
			if err != nil {
				return nil, "", apperrors.New(apperrors.ErrorTypeConfig,
					"no cookie given and no stored account found; run 'wbprivacy auth login' or pass --cookie/--cookie-file")
			}
		}

		cookie = account.Cookie
		if userID == "" {
			userID = account.UserID
		}
	}

	session, err := auth.DeriveSession(cookie)
	if err != nil {
		return nil, "", err
	}

	userID = weibo.SanitizeUserID(userID)
	if !weibo.IsValidUserID(userID) {
		return nil, "", apperrors.Newf(apperrors.ErrorTypeConfig,
			"invalid user id %q; pass the numeric account id with --user-id", userID)
	}

	return session, userID, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM, so a
// run stops cleanly at its next suspension point.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// fatal reports a setup error and terminates with the setup exit code.
// Errors carrying a remediation hint print it below the message.
func fatal(message string, err error) {
	ui.PrintError(message, err.Error())
	if hint := apperrors.HintOf(err); hint != "" {
		ui.PrintWarning("Hint", hint)
	}
	os.Exit(exitSetup)
}
