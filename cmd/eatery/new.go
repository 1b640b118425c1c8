package main

import (
	"fmt"
	"os"

	"github.com/eringen/eatery/scaffold"
)

func runNew(dir string) error {
	data := scaffold.NewData(dir)
	fmt.Printf("Creating new eatery site: %s\n\n", data.SiteName)

	if err := scaffold.Write(dir, data, os.Stdout); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Done! Next steps:")
	fmt.Println()
	fmt.Printf("  cd %s\n", dir)
	fmt.Println("  cp .env.example .env")
	fmt.Println("  eatery serve")
	fmt.Println()
	fmt.Println("Edit content/*.json and content/routes.yaml, then run 'eatery build'.")
	fmt.Println("Set SESSION_SECRET and the FORM_ENDPOINT_* variables in .env before going live.")
	return nil
}
