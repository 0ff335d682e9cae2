package service

import (
	domainauth "github.com/digieduhack/aula-api/internal/domain/auth"
)

var (
	adminPrincipal   = &domainauth.Principal{UserID: "admin-1", Email: "ana@alumno.buap.mx", IsAdmin: true}
	studentPrincipal = &domainauth.Principal{UserID: "user-1", Email: "bo@gmail.com"}
)
