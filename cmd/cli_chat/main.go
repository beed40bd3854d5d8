package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"stem-buddy/internal/client"
)

// Interactive terminal chat against a running API. Useful for poking at the
// tutor without the web frontend.
func main() {
	_ = godotenv.Load()

	baseURL := flag.String("url", "http://localhost:8080", "API base URL")
	userID := flag.String("user", "", "user id owning the session")
	title := flag.String("title", "CLI study session", "title for the new session")
	subject := flag.String("subject", "", "optional subject tag")
	flag.Parse()

	if *userID == "" {
		log.Fatal("missing -user")
	}

	ctx := context.Background()
	api := client.New(*baseURL, os.Getenv("API_TOKEN"))

	session, err := api.CreateSession(ctx, *userID, *title, *subject)
	if err != nil {
		log.Fatalf("create session: %v", err)
	}
	fmt.Printf("session %s (%s)\n", session.ID, session.Title)
	fmt.Println("type a question, or /quit to exit")

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "/quit" {
			return
		}

		reply, err := api.PostMessage(ctx, session.ID, line)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		fmt.Printf("\n%s\n\n", reply)
	}
}
