// Command roscactl is an operator CLI for the ROSCA server.
//
// Usage:
//
//	roscactl [-addr URL] [-token JWT] <command> [flags]
//
// Commands:
//
//	member add|get|groups   manage members
//	join                    seat a member in a plan
//	group get|list|activate|status|delete
//	rounds                  list a group's rounds
//	round status            open, block or unblock a round
//	payments                list a round's obligations
//	pay                     mark an obligation paid
//	check                   check and settle a round
//	late                    list late obligations
//	due                     list obligations due in a window
//	token                   mint an operator token
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.LookupEnv); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
