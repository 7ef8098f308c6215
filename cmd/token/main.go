// token emite un Bearer Token firmado con JWT_SECRET para pruebas y operación.
// La API no gestiona usuarios: el proveedor de identidad comparte el secreto.
//
// Uso: go run ./cmd/token -user <id> -role admin|bodeguero|vendedor [-company <id>] [-min 60]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/inventario-distribucion/pkg/config"
	"github.com/jhoicas/inventario-distribucion/pkg/jwt"
)

func main() {
	user := flag.String("user", "", "id del usuario")
	role := flag.String("role", jwt.RoleBodeguero, "rol")
	company := flag.String("company", "", "id de la empresa")
	minutes := flag.Int("min", 0, "vigencia en minutos (0 = JWT_EXPIRATION_MINUTES)")
	flag.Parse()

	if *user == "" {
		fmt.Fprintln(os.Stderr, "-user es obligatorio")
		os.Exit(2)
	}
	if !jwt.ValidRole(*role) {
		fmt.Fprintf(os.Stderr, "rol desconocido %q\n", *role)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	exp := cfg.JWT.Expiration
	if *minutes > 0 {
		exp = *minutes
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, *user, *company, *role, cfg.JWT.Issuer, exp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
