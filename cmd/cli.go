package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/firebase/genkit/go/ai"

	"github.com/vento0/vento/internal/agent"
	"github.com/vento0/vento/internal/app"
	"github.com/vento0/vento/internal/config"
	"github.com/vento0/vento/internal/log"
	"github.com/vento0/vento/internal/render"
	"github.com/vento0/vento/internal/session"
	"github.com/vento0/vento/internal/ui"
)

// chatBackend is the slice of the application the chat loop needs.
type chatBackend interface {
	Execute(ctx context.Context, history []*ai.Message, userMessage string) (*agent.Turn, []*ai.Message, error)
	ModelName() string
	Rebind(ctx context.Context, provider, model string) error
}

// appBackend adapts the application container to chatBackend.
type appBackend struct {
	app *app.App
}

func (b appBackend) Execute(ctx context.Context, history []*ai.Message, userMessage string) (*agent.Turn, []*ai.Message, error) {
	return b.app.Agent.Execute(ctx, history, userMessage)
}

func (b appBackend) ModelName() string { return b.app.Agent.ModelName() }

func (b appBackend) Rebind(ctx context.Context, provider, model string) error {
	return b.app.Rebind(ctx, provider, model)
}

// runCLI starts the interactive chat.
func runCLI() error {
	logger := initLogger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	ui.BannerWithInfo(os.Stdout, app.Version, cfg.FullModelName())

	renderer, err := render.New(render.Config{
		Sink:   render.NewConsoleSink(os.Stdout),
		Logger: logger,
		Pacing: render.Pacing{
			ArgDelay:    cfg.Typing.ArgDelay(),
			ResultDelay: cfg.Typing.ResultDelay(),
			AnswerDelay: cfg.Typing.AnswerDelay(),
		},
		PreviewLimit: cfg.Typing.PreviewLimit,
	})
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	console := ui.NewConsole(os.Stdin, os.Stdout)
	sess := session.New(cfg.Provider, cfg.ModelName)

	return chatLoop(ctx, console, renderer, sess, appBackend{app: a}, logger)
}

// chatLoop is the REPL. It reads a line, routes slash commands, and for
// everything else runs a full agent turn and renders it. A turn reaches
// the journal only after its answer rendered completely.
func chatLoop(ctx context.Context, console ui.IO, renderer *render.Renderer, sess *session.Session, backend chatBackend, logger log.Logger) error {
	printSuggestions(console)

	for {
		console.Print("\n❯ ")
		if !console.Scan() {
			console.Println()
			console.Println("Goodbye! 👋")
			return nil
		}
		if err := ctx.Err(); err != nil {
			console.Println()
			console.Println("Goodbye! 👋")
			return nil
		}

		input := strings.TrimSpace(console.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if done := handleCommand(ctx, input, console, sess, backend); done {
				return nil
			}
			continue
		}

		turn, history, err := backend.Execute(ctx, sess.History(), input)
		if err != nil {
			logger.Error("turn execution failed", "error", err)
			console.Println("Sorry, something went wrong while handling that. Please try again.")
			continue
		}

		if err := renderer.Render(ctx, turn); err != nil {
			if errors.Is(err, context.Canceled) {
				console.Println()
				console.Println("Goodbye! 👋")
				return nil
			}
			logger.Error("rendering failed", "error", err)
			console.Println("Sorry, something went wrong while showing the answer.")
			continue
		}

		sess.Journal().Append(turn)
		sess.SetHistory(history)
	}
}

// handleCommand processes a slash command. It returns true when the loop
// should exit.
func handleCommand(ctx context.Context, input string, console ui.IO, sess *session.Session, backend chatBackend) bool {
	fields := strings.Fields(input)

	switch fields[0] {
	case "/exit", "/quit":
		console.Println("Goodbye! 👋")
		return true

	case "/help":
		console.Print(`Commands:
  /help    Show this help
  /clear   Clear the conversation history
  /model   Show the current model
  /model <model>             Switch model within the current provider
  /model <provider> <model>  Switch provider and model
  /exit    Leave the chat
`)

	case "/clear":
		ok, err := console.Confirm("Clear the conversation?")
		if err != nil || !ok {
			console.Println("Cancelled.")
			break
		}
		sess.ClearHistory()
		console.Println("Conversation cleared.")

	case "/model":
		if len(fields) == 1 {
			console.Printf("Current model: %s\n", backend.ModelName())
			break
		}
		provider, model := sess.Provider(), fields[1]
		if len(fields) >= 3 {
			provider, model = fields[1], fields[2]
		}
		if err := backend.Rebind(ctx, provider, model); err != nil {
			console.Printf("Cannot switch model: %v\n", err)
			break
		}
		sess.UpdateSettings(provider, model)
		console.Printf("Now using %s/%s\n", provider, model)

	default:
		console.Println("Unknown command. Type /help for available commands.")
	}
	return false
}

// printSuggestions prints the starter prompts shown on startup.
func printSuggestions(console ui.IO) {
	console.Println("Try one of these to get started:")
	console.Println("  🗓️  Pianifica una giornata a Milano domani, suggerisci attività in base al meteo")
	console.Println("  🌤️  Che tempo farà a Roma nei prossimi 3 giorni? Suggerisci cosa fare")
	console.Println("  🍝  Meteo attuale a Firenze e suggerisci dove mangiare")
	console.Println("  📅  Crea un itinerario completo per domani a Venezia basato sul meteo")
}
