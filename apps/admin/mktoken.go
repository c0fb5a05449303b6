package main

import (
	"fmt"

	"github.com/google/uuid"

	echoapi "github.com/mawingu/darasa/apps/api/echo"
)

// mkToken mints a signed operator token; identity management lives outside
// this service, so operators are identified by what the caller supplies.
func (cli *commandLine) mkToken(first, last, email string, admin bool) error {
	claims := echoapi.NewOperatorClaims(cli.conf, uuid.New().String(), first, last, email, admin)
	token, err := echoapi.GenerateToken(cli.conf, claims)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
