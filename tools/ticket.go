package tools

import (
	"os"

	"go.uber.org/zap"

	"printlab/logging"
)

// SimulatedTicketURL is returned when no issue tracker token is configured.
const SimulatedTicketURL = "https://github.com/jahon/print-analytics/issues/new"

type Ticket struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// TicketResult is what create_support_ticket hands back to the model.
type TicketResult struct {
	Success   bool    `json:"success"`
	Simulated bool    `json:"simulated"`
	URL       string  `json:"url,omitempty"`
	Message   string  `json:"message,omitempty"`
	Ticket    *Ticket `json:"ticket,omitempty"`
}

// FileTicket records a support ticket request. It never calls the issue
// tracker: without a token it returns a canned new-issue URL, and with one
// it acknowledges that the ticket was only logged locally. token falls back
// to GITHUB_TOKEN.
func FileTicket(title, description, token string) TicketResult {
	log := logging.Named("tools")

	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}

	if token == "" {
		log.Info("Simulating ticket creation (no token)", zap.String("title", title))
		return TicketResult{
			Success:   true,
			Simulated: true,
			URL:       SimulatedTicketURL,
		}
	}

	// TODO: create the issue through the GitHub REST API once a target
	// repository is configurable; until then the token only changes the reply.
	log.Info("Ticket logged locally", zap.String("title", title))
	return TicketResult{
		Success:   true,
		Simulated: true,
		Message:   "Ticket logged locally (API not fully wired)",
		Ticket:    &Ticket{Title: title, Body: description},
	}
}
