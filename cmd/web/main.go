// @title           Findtern API
// @version         1.0
// @description     Маркетплейс стажировок: стажеры, работодатели, интервью и офферы.
// @contact.name    Findtern
// @contact.email   support@findtern.in
// @host            localhost:4000
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

//go:generate swag init -g cmd/web/main.go -o docs -d ../../

package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
