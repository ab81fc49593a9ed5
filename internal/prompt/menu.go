package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/forest6511/passkeep/internal/cli"
	"github.com/forest6511/passkeep/internal/logging"
	"github.com/forest6511/passkeep/pkg/vault"
)

// Menu choices
const (
	ChoiceMake    = "1"
	ChoiceView    = "2"
	ChoiceViewAll = "3"
	ChoiceChange  = "4"
	ChoiceQuit    = "q"
)

// EntryStore is the part of vault.Store the menu uses.
type EntryStore interface {
	AppendAndPersist(e vault.Entry) error
	ListAll() ([]vault.Entry, error)
	FindAll(siteApp string) ([]vault.Entry, error)
}

// Menu is the interactive loop over a vault.
type Menu struct {
	p      *Prompter
	store  EntryStore
	gen    Generator
	logger logging.Logger
}

// NewMenu wires a menu. A nil logger discards output.
func NewMenu(p *Prompter, store EntryStore, gen Generator, logger logging.Logger) *Menu {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Menu{p: p, store: store, gen: gen, logger: logger}
}

// Run shows the menu until the user quits or the input ends. Store errors
// end the loop and are returned.
func (m *Menu) Run(ctx context.Context) error {
	m.p.Clear()
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		choice, err := m.p.ReadLine(menuText)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		m.p.Clear()

		switch choice {
		case ChoiceMake:
			err = m.makePassword(ctx)
		case ChoiceView:
			err = m.viewPassword(ctx)
		case ChoiceViewAll:
			err = m.viewAll(ctx)
		case ChoiceChange:
			m.p.Println("Changing a password is not supported.")
			err = m.pause()
		case ChoiceQuit, "Q":
			return nil
		default:
			m.p.Println("Please enter a choice from the menu.")
		}

		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

const menuText = `MENU
What would you like to do?
- Enter 1 to make a password.
- Enter 2 to view a password.
- Enter 3 to view all passwords.
- Enter 4 to change a password.
- Enter q to quit.`

func (m *Menu) makePassword(ctx context.Context) error {
	entry, err := m.p.CollectEntry(m.gen)
	if err != nil {
		return err
	}
	if err := m.store.AppendAndPersist(entry); err != nil {
		return err
	}
	m.logger.Info(ctx, "entry added", "site_app", entry.SiteApp, "length", len(entry.Password))
	m.p.Printf("Password for %s saved.\n\n", entry.SiteApp)
	return nil
}

func (m *Menu) viewPassword(ctx context.Context) error {
	label, err := m.p.ReadLine("Which password would you like to retrieve?")
	if err != nil {
		return err
	}
	label = cli.NormalizeLabel(label)

	matches, err := m.store.FindAll(label)
	if err != nil {
		return err
	}
	m.logger.Debug(ctx, "entry lookup", "site_app", label, "matches", len(matches))

	if len(matches) == 0 {
		m.p.Printf("No password stored for %q.\n", label)
	}
	for _, e := range matches {
		m.p.Println(e)
		m.p.Println()
	}
	return m.pause()
}

func (m *Menu) viewAll(ctx context.Context) error {
	entries, err := m.store.ListAll()
	if err != nil {
		return err
	}
	m.logger.Debug(ctx, "entries listed", "count", len(entries))

	if len(entries) == 0 {
		m.p.Println("No passwords stored yet.")
	}
	for _, e := range entries {
		m.p.Println(e)
		m.p.Println()
	}
	return m.pause()
}

func (m *Menu) pause() error {
	if err := m.p.Pause(); err != nil {
		return fmt.Errorf("prompt: pause failed: %w", err)
	}
	m.p.Clear()
	return nil
}
