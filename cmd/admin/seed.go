package main

import (
	"context"
	"fmt"
	"time"

	"github.com/alpha-aviation/enrollment-service/internal/repositories/fixture"
)

// seed inserts the demo roster. Accounts whose email already exists are left alone.
func (cli *commandLine) seed() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	users := cli.store.Users()
	created := 0
	for _, usr := range fixture.SeedUsers() {
		exists, err := users.ExistsByEmail(ctx, usr.Email)
		if err != nil {
			return err
		}
		if exists {
			fmt.Fprintf(cli.out, "skip %s\n", usr.Email)
			continue
		}

		usr.ID = "" // live stores issue their own ids
		if err := users.Create(ctx, usr); err != nil {
			return fmt.Errorf("seed %s: %w", usr.Email, err)
		}
		created++
	}

	fmt.Fprintf(cli.out, "Seeded %d users\n", created)
	return nil
}
