package models

// TipoPrincipal is the closed set of caller identities. It is resolved once
// when the session is loaded and carried through the request context instead
// of re-deriving the role from profile presence on every check.
type TipoPrincipal string

const (
	PrincipalAlumno   TipoPrincipal = "ALUMNO"
	PrincipalPersonal TipoPrincipal = "PERSONAL"
	PrincipalAdmin    TipoPrincipal = "ADMIN"
	PrincipalInvitado TipoPrincipal = "INVITADO"
)

// Principal is the authenticated caller attached to the request context.
type Principal struct {
	UsuarioID           string
	Username            string
	Tipo                TipoPrincipal
	Cargo               Cargo
	AlumnoID            string
	PersonalID          string
	DebeCambiarPassword bool
}

// Rol renders the role string exposed by the API, e.g. "ALUMNO",
// "PERSONAL:DOCENTE" or "ADMIN".
func (p *Principal) Rol() string {
	switch p.Tipo {
	case PrincipalPersonal:
		if p.Cargo != "" {
			return string(PrincipalPersonal) + ":" + string(p.Cargo)
		}
		return string(PrincipalPersonal)
	default:
		return string(p.Tipo)
	}
}

// EsAdminOPreceptor reports whether the caller holds administrative powers.
func (p *Principal) EsAdminOPreceptor() bool {
	if p.Tipo == PrincipalAdmin {
		return true
	}
	return p.Tipo == PrincipalPersonal && (p.Cargo == CargoAdmin || p.Cargo == CargoPreceptor)
}

// EsDocente reports whether the caller is teaching staff.
func (p *Principal) EsDocente() bool {
	return p.Tipo == PrincipalPersonal && p.Cargo == CargoDocente
}
