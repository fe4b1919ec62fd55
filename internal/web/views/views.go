// Package views renders the attendant pages and emails as templ components.
// Markup lives in the .templ files; run `templ generate` after editing them.
package views

import (
	"time"

	"github.com/spec-kit/attendant-desk/internal/web/flash"
)

const appTitle = "Plataforma de Atendimento"

// PasswordResetSubject is the subject line of the reset email.
const PasswordResetSubject = "Redefinição de Senha - Plataforma de Atendimento"

// Page is the shared state every full page receives.
type Page struct {
	Title  string
	Notice *flash.Notice
}

// RegisterForm is the state of the registration form.
type RegisterForm struct {
	Name   string
	Email  string
	Sector string
}

// Dashboard is the state of the attendant's main page.
type Dashboard struct {
	Name   string
	Sector string
}

func titled(page Page, title string) Page {
	page.Title = title
	return page
}

func pageTitle(page Page) string {
	if page.Title == "" {
		return appTitle
	}
	return page.Title + " | " + appTitle
}

func noticeClass(n *flash.Notice) string {
	return "alert alert-" + string(n.Kind) + " m-3"
}

func greeting(name string) string {
	if name == "" {
		return "Olá,"
	}
	return "Olá, " + name + ","
}

func expiry(t time.Time) string {
	return t.UTC().Format("02/01/2006 15:04")
}
