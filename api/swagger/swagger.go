package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Gestión Académica API",
        "description": "Backend de gestión académica: carreras, materias, inscripciones y notas",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Sesión y credenciales"},
        {"name": "Registro", "description": "Auto-registro con aprobación"},
        {"name": "Catalogo", "description": "Carreras y materias públicas"},
        {"name": "Alumno", "description": "Autogestión del alumno"},
        {"name": "Docente", "description": "Materias asignadas y notas"},
        {"name": "Admin", "description": "Gestión administrativa"}
    ],
    "paths": {
        "/csrf": {
            "get": {
                "tags": ["Auth"],
                "summary": "Emite un token CSRF",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Inicia sesión con DNI y contraseña",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Cuenta pendiente de aprobación", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "401": {"description": "Credenciales inválidas", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "Cierra la sesión",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Usuario actual, rol y perfil",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "No autenticado", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/password": {
            "post": {
                "tags": ["Auth"],
                "summary": "Cambia la contraseña propia",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Validación", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/usuarios/registro": {
            "post": {
                "tags": ["Registro"],
                "summary": "Solicita una cuenta (queda PENDIENTE)",
                "responses": {
                    "201": {"description": "Creado"},
                    "400": {"description": "Validación o DNI duplicado", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/carreras": {
            "get": {
                "tags": ["Catalogo"],
                "summary": "Lista las carreras",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/carreras/{id}/materias": {
            "get": {
                "tags": ["Catalogo"],
                "summary": "Materias de una carrera",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Carrera no encontrada", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/alumnos/me/materias/{id}/inscripcion": {
            "post": {
                "tags": ["Alumno"],
                "summary": "Inscribirse en una materia",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "201": {"description": "Inscripto"},
                    "400": {"description": "Sin cupo o ya inscripto", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            },
            "delete": {
                "tags": ["Alumno"],
                "summary": "Darse de baja de una materia",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Baja registrada"},
                    "404": {"description": "No inscripto", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/docente/notas": {
            "post": {
                "tags": ["Docente"],
                "summary": "Carga o reemplaza una nota",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Nota fuera de rango", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "403": {"description": "No asignado a la materia", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/admin/registros/{id}/aprobar": {
            "patch": {
                "tags": ["Admin"],
                "summary": "Aprueba un registro PENDIENTE",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Aprobado"},
                    "400": {"description": "El registro no está en estado PENDIENTE", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/admin/stats": {
            "get": {
                "tags": ["Admin"],
                "summary": "Contadores del panel",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "dni": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "ErrorBody": {
            "type": "object",
            "properties": {
                "detail": {"type": "string"},
                "errores": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "array",
                        "items": {"type": "string"}
                    }
                }
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
