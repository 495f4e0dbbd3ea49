package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gosend-cli",
		Short: "GoSend CLI tool",
		Long:  `A command line interface for driving a transfer flow against the GoSend API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the GoSend API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	var (
		amount    string
		currency  string
		recipient string
		address   string
		country   string
		phone     string
		code      string
	)

	sendCmd := &cobra.Command{
		Use:   "send",
		Short: "Run a full send flow: open, fill, continue, confirm, verify",
		Run: func(cmd *cobra.Command, args []string) {
			runSend(sendInput{
				amount:    amount,
				currency:  currency,
				recipient: recipient,
				address:   address,
				country:   country,
				phone:     phone,
				code:      code,
			})
		},
	}

	sendCmd.Flags().StringVar(&amount, "amount", "", "Transfer amount")
	sendCmd.Flags().StringVar(&currency, "currency", "USD", "Currency code")
	sendCmd.Flags().StringVar(&recipient, "recipient", "", "Recipient display name")
	sendCmd.Flags().StringVar(&address, "address", "", "Recipient ledger address")
	sendCmd.Flags().StringVar(&country, "country", "", "Recipient country")
	sendCmd.Flags().StringVar(&phone, "phone", "", "Recipient phone number")
	sendCmd.Flags().StringVar(&code, "code", "", "Verification code (when the flow requires step-up)")

	statusCmd := &cobra.Command{
		Use:   "status <session-id>",
		Short: "Show the state of a transfer session",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			showStatus(args[0])
		},
	}

	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(statusCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

type sendInput struct {
	amount    string
	currency  string
	recipient string
	address   string
	country   string
	phone     string
	code      string
}

type sessionPayload struct {
	ID    string `json:"id"`
	State string `json:"state"`
	Draft *struct {
		FieldErrors map[string]string `json:"field_errors"`
		Valid       bool              `json:"valid"`
	} `json:"draft"`
	Preview *struct {
		AmountDisplay string `json:"amount_display"`
		ShortAddress  string `json:"short_address"`
		PhoneDisplay  string `json:"phone_display"`
	} `json:"preview"`
	Challenge *struct {
		SentTo            string `json:"sent_to"`
		AttemptsRemaining int    `json:"attempts_remaining"`
	} `json:"challenge"`
	LastError string `json:"last_error"`
	Receipt   *struct {
		ID            string `json:"id"`
		AmountDisplay string `json:"amount_display"`
	} `json:"receipt"`
}

func runSend(input sendInput) {
	session := request("POST", "/api/v1/sessions", nil)
	fmt.Printf("Opened session %s\n", session.ID)

	draft := map[string]string{}
	if input.amount != "" {
		draft["amount"] = input.amount
	}
	if input.currency != "" {
		draft["currency"] = input.currency
	}
	if input.recipient != "" {
		draft["recipient_name"] = input.recipient
	}
	if input.address != "" {
		draft["address"] = input.address
	}
	if input.country != "" {
		draft["country"] = input.country
	}
	if input.phone != "" {
		draft["phone_number"] = input.phone
	}

	session = request("PUT", "/api/v1/sessions/"+session.ID+"/draft", draft)

	session = request("POST", "/api/v1/sessions/"+session.ID+"/continue", nil)
	if session.State != "preview" {
		fmt.Println("Validation failed:")
		if session.Draft != nil {
			for field, kind := range session.Draft.FieldErrors {
				fmt.Printf("  %s: %s\n", field, kind)
			}
		}
		os.Exit(1)
	}

	if session.Preview != nil {
		fmt.Printf("Preview: %s", session.Preview.AmountDisplay)
		if session.Preview.ShortAddress != "" {
			fmt.Printf(" to %s", session.Preview.ShortAddress)
		}
		if session.Preview.PhoneDisplay != "" {
			fmt.Printf(" (%s)", session.Preview.PhoneDisplay)
		}
		fmt.Println()
	}

	session = request("POST", "/api/v1/sessions/"+session.ID+"/confirm", nil)

	if session.State == "step_up_pending" {
		if input.code == "" {
			fmt.Printf("Verification code sent to %s. Re-run with --code or use:\n", session.Challenge.SentTo)
			fmt.Printf("  gosend-cli status %s\n", session.ID)
			return
		}

		session = request("POST", "/api/v1/sessions/"+session.ID+"/verify", map[string]string{"code": input.code})
	}

	printOutcome(session)
}

func showStatus(id string) {
	session := request("GET", "/api/v1/sessions/"+id, nil)
	fmt.Printf("Session %s: %s\n", session.ID, session.State)
	if session.LastError != "" {
		fmt.Printf("Last error: %s\n", session.LastError)
	}
	printOutcome(session)
}

func printOutcome(session *sessionPayload) {
	switch session.State {
	case "success":
		fmt.Printf("Transfer SUCCEEDED: receipt %s, %s\n", session.Receipt.ID, session.Receipt.AmountDisplay)
	case "failed":
		fmt.Println("Transfer FAILED: verification attempts exhausted")
		os.Exit(1)
	case "preview":
		if session.LastError != "" {
			fmt.Printf("Submission failed (%s); retry with POST /api/v1/sessions/%s/retry\n", session.LastError, session.ID)
			os.Exit(1)
		}
	}
}

func request(method, path string, body any) *sessionPayload {
	client := &http.Client{Timeout: timeout}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			fmt.Printf("Failed to encode request: %v\n", err)
			os.Exit(1)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		fmt.Printf("Failed to build request: %v\n", err)
		os.Exit(1)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 500 {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(data))
		os.Exit(1)
	}

	var payload sessionPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	return &payload
}
