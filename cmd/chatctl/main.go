// Command chatctl drives the chat HTTP API from a terminal.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"encrypto-chat/internal/dto"
)

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "register":
		err = runRegister(args)
	case "login":
		err = runLogin(args)
	case "verify":
		err = runVerify(args)
	case "send":
		err = runSend(args)
	case "inbox":
		err = runInbox(args)
	default:
		usage()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  register   Create an account")
	fmt.Fprintln(os.Stderr, "  login      Check the password and have a code emailed")
	fmt.Fprintln(os.Stderr, "  verify     Exchange the emailed code for an access token")
	fmt.Fprintln(os.Stderr, "  send       Send a message")
	fmt.Fprintln(os.Stderr, "  inbox      List a user's messages")
	os.Exit(2)
}

type client struct {
	baseURL string
	token   string
	http    *http.Client
}

func newFlagSet(name string) (*flag.FlagSet, *client) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	c := &client{http: &http.Client{Timeout: 10 * time.Second}}
	fs.StringVar(&c.baseURL, "base-url", getenv("CHATCTL_BASE_URL", "http://localhost:8080"), "chat service base URL")
	fs.StringVar(&c.token, "token", os.Getenv("CHATCTL_TOKEN"), "bearer token for protected routes")
	return fs, c
}

func runRegister(args []string) error {
	fs, c := newFlagSet("register")
	var req dto.CreateUserRequest
	fs.StringVar(&req.FirstName, "first", "", "first name")
	fs.StringVar(&req.LastName, "last", "", "last name")
	fs.StringVar(&req.Email, "email", "", "email address")
	fs.StringVar(&req.PlainPassword, "password", os.Getenv("CHATCTL_PASSWORD"), "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	var res dto.CreateUserResponse
	if err := c.call(http.MethodPost, "/v1/users", req, &res); err != nil {
		return err
	}
	return printJSON(os.Stdout, res)
}

func runLogin(args []string) error {
	fs, c := newFlagSet("login")
	var req dto.LoginRequest
	fs.StringVar(&req.Email, "email", "", "email address")
	fs.StringVar(&req.PlainPassword, "password", os.Getenv("CHATCTL_PASSWORD"), "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	var login dto.LoginResponse
	if err := c.call(http.MethodPost, "/v1/auth/login", req, &login); err != nil {
		return err
	}
	var issued dto.IssueChallengeResponse
	if err := c.call(http.MethodPost, "/v1/auth/2fa/issue", dto.IssueChallengeRequest{UserID: login.UserID}, &issued); err != nil {
		return err
	}
	return printJSON(os.Stdout, issued)
}

func runVerify(args []string) error {
	fs, c := newFlagSet("verify")
	var req dto.VerifyChallengeRequest
	fs.StringVar(&req.UserID, "user", "", "user UUID")
	fs.StringVar(&req.SecretAttempt, "code", "", "code from the email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	var res dto.TokenResponse
	if err := c.call(http.MethodPost, "/v1/auth/2fa/verify", req, &res); err != nil {
		return err
	}
	return printJSON(os.Stdout, res)
}

func runSend(args []string) error {
	fs, c := newFlagSet("send")
	var req dto.SendMessageRequest
	fs.StringVar(&req.SenderID, "from", "", "sender UUID")
	fs.StringVar(&req.RecipientID, "to", "", "recipient UUID")
	fs.StringVar(&req.MessageContent, "text", "", "message text")
	if err := fs.Parse(args); err != nil {
		return err
	}
	var res dto.SendMessageResponse
	if err := c.call(http.MethodPost, "/v1/messages", req, &res); err != nil {
		return err
	}
	return printJSON(os.Stdout, res)
}

func runInbox(args []string) error {
	fs, c := newFlagSet("inbox")
	userID := fs.String("user", "", "user UUID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*userID) == "" {
		return fmt.Errorf("user id is required")
	}
	var res []dto.ConversationMessage
	if err := c.call(http.MethodGet, "/v1/messages/"+url.PathEscape(*userID), nil, &res); err != nil {
		return err
	}
	return printJSON(os.Stdout, res)
}

// call sends in as JSON (when non-nil) and decodes the response into out.
// Error responses become errors carrying the server message.
func (c *client) call(method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, strings.TrimRight(c.baseURL, "/")+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to close response body: %v\n", cerr)
		}
	}()

	if resp.StatusCode >= 400 {
		var e struct {
			Message string `json:"message"`
		}
		data, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(data, &e) == nil && e.Message != "" {
			return fmt.Errorf("%s %s: %s", method, path, e.Message)
		}
		if len(data) == 0 {
			data = []byte(resp.Status)
		}
		return fmt.Errorf("%s %s: %s", method, path, strings.TrimSpace(string(data)))
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
