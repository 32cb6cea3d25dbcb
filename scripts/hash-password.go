package main

import (
	"fmt"
	"os"

	"github.com/ntp/agent-server-go/internal/util"
)

// Prints a bcrypt hash suitable for ntp_common_group_agent.agent_pwd.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: go run scripts/hash-password.go <password>\n")
		os.Exit(1)
	}

	hash, err := util.HashPassword(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}
