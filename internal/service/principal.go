package service

import (
	domainauth "github.com/digieduhack/aula-api/internal/domain/auth"
	apperrors "github.com/digieduhack/aula-api/internal/errors"
)

func requirePrincipal(p *domainauth.Principal) error {
	if p == nil || p.UserID == "" {
		return apperrors.SessionRequired("Sign in to continue.")
	}
	return nil
}

func requireAdmin(p *domainauth.Principal) error {
	if err := requirePrincipal(p); err != nil {
		return err
	}
	if !p.IsAdmin {
		return apperrors.Forbidden("Only administrators can perform this action.")
	}
	return nil
}
