// Package main provides the CLI entrypoint for struct-mapper.
//
// struct-mapper resolves and runs the rules of the sample shop catalogue:
//   - plan prints the resolved mapping plans as YAML, JSON or a debug dump
//   - demo maps the sample store orders into warehouse orders
//
// Settings come from a YAML file (--config) and STRUCT_MAPPER_* environment
// variables, a .env file in the working directory is loaded first.
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"struct-mapper/internal/cli"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
