package models

// Persona holds the identity fields shared by Alumno and Personal records.
type Persona struct {
	Nombre    string `db:"nombre" json:"nombre"`
	Apellido  string `db:"apellido" json:"apellido"`
	DNI       string `db:"dni" json:"dni"`
	Email     string `db:"email" json:"email"`
	Telefono  string `db:"telefono" json:"telefono"`
	Direccion string `db:"direccion" json:"direccion"`
}
