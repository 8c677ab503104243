package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/akraynov/passlock/internal/logger"
	"github.com/akraynov/passlock/internal/models"
	"github.com/akraynov/passlock/internal/users"
	"github.com/akraynov/passlock/internal/vault"
)

var (
	version   string
	buildDate string
)

var (
	okMsg   = color.New(color.FgGreen).PrintfFunc()
	errMsg  = color.New(color.FgRed).PrintfFunc()
	infoMsg = color.New(color.FgCyan).PrintfFunc()
)

// cipherChoices maps menu input to cipher kinds.
var cipherChoices = map[string]models.CipherKind{
	"1": models.CipherPlain,
	"2": models.CipherBase64,
	"3": models.CipherSalted,
	"4": models.CipherFeistel,
}

func prompt(scanner *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

// promptPassword reads a password without echoing it. Falls back to plain
// line input when stdin is not a terminal (tests, pipes).
func promptPassword(scanner *bufio.Scanner, label string) string {
	fmt.Print(label)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return ""
		}
		return string(raw)
	}
	if !scanner.Scan() {
		return ""
	}
	return scanner.Text()
}

// register walks the registration dialog, reporting each distinct failure
// condition with its own message.
func register(scanner *bufio.Scanner, manager *users.Manager) {
	username := prompt(scanner, "Choose a username: ")
	password := promptPassword(scanner, "Choose a password: ")
	confirm := promptPassword(scanner, "Confirm password: ")

	err := manager.Register(username, password, confirm)
	switch {
	case err == nil:
		okMsg("User %q registered\n", username)
	case errors.Is(err, users.ErrEmptyField):
		errMsg("All fields are required\n")
	case errors.Is(err, users.ErrPasswordTooShort):
		errMsg("Password must be at least %d characters\n", users.MinPasswordLength)
	case errors.Is(err, users.ErrPasswordMismatch):
		errMsg("Passwords do not match\n")
	case errors.Is(err, users.ErrUserExists):
		errMsg("Username %q is already taken\n", username)
	default:
		errMsg("Registration failed: %v\n", err)
	}
}

// vaultMenu runs the per-user credential menu until logout.
func vaultMenu(scanner *bufio.Scanner, v *vault.Vault, username string) {
	infoMsg("Logged in as %s. Commands: add, list, remove <n>, clear, count, logout\n", username)

	for {
		fmt.Printf("%s> ", username)
		if !scanner.Scan() {
			return
		}
		args := strings.Fields(scanner.Text())
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "add":
			addEntry(scanner, v)
		case "list":
			listEntries(v)
		case "remove":
			if len(args) < 2 {
				fmt.Println("Usage: remove <n>")
				continue
			}
			index, err := strconv.Atoi(args[1])
			if err != nil {
				errMsg("Not a number: %s\n", args[1])
				continue
			}
			// The menu shows 1-based positions.
			if v.RemoveAt(index - 1) {
				okMsg("Entry removed\n")
			} else {
				errMsg("Entry not found\n")
			}
		case "clear":
			if prompt(scanner, "Remove ALL entries? (yes/no): ") != "yes" {
				continue
			}
			if err := v.Clear(); err != nil {
				errMsg("Failed to clear: %v\n", err)
			} else {
				okMsg("All entries removed\n")
			}
		case "count":
			fmt.Printf("%d entries stored\n", v.Count())
		case "logout":
			return
		default:
			fmt.Println("Unknown command. Commands: add, list, remove <n>, clear, count, logout")
		}
	}
}

func addEntry(scanner *bufio.Scanner, v *vault.Vault) {
	service := prompt(scanner, "Service name: ")
	account := prompt(scanner, "Login for the service: ")
	secret := promptPassword(scanner, "Password for the service: ")
	if service == "" || account == "" || secret == "" {
		errMsg("All fields are required\n")
		return
	}

	fmt.Println("Encoding scheme:")
	for _, choice := range []string{"1", "2", "3", "4"} {
		fmt.Printf("  %s) %s\n", choice, cipherChoices[choice].Description())
	}
	kind, ok := cipherChoices[prompt(scanner, "Choose [1-4]: ")]
	if !ok {
		errMsg("Unknown choice\n")
		return
	}

	if err := v.Add(service, account, secret, kind); err != nil {
		errMsg("Failed to add entry: %v\n", err)
		return
	}
	okMsg("Entry for %q added (%s)\n", service, kind.Description())
}

func listEntries(v *vault.Vault) {
	entries := v.EntriesDecrypted()
	if len(entries) == 0 {
		fmt.Println("No entries stored")
		return
	}
	for i, e := range entries {
		fmt.Printf("%d. %s: login: %s, password: %s (%s)\n",
			i+1, e.Service, e.Account, e.Secret, e.CipherLabel())
	}
}

func main() {
	var (
		dataDir string
		showVer bool
	)
	flag.StringVar(&dataDir, "dir", ".", "data directory for user and password files")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("passlock client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	// Keep the console clean: only real failures reach the terminal.
	log := logger.New()
	if err := log.Init("Error"); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Log.Sync() }()

	manager := users.NewManager(dataDir, log.Log)
	scanner := bufio.NewScanner(os.Stdin)

	infoMsg("passlock credential keeper. Commands: login, register, exit\n")
	for {
		fmt.Print("passlock> ")
		if !scanner.Scan() {
			break
		}
		switch strings.TrimSpace(scanner.Text()) {
		case "register":
			register(scanner, manager)
		case "login":
			username := prompt(scanner, "Username: ")
			password := promptPassword(scanner, "Password: ")
			if _, err := manager.Login(username, password); err != nil {
				errMsg("Login failed: invalid username or password\n")
				continue
			}
			v, err := vault.New(dataDir, username, log.Log)
			if err != nil {
				errMsg("Stored entries could not be read, starting empty: %v\n", err)
			}
			vaultMenu(scanner, v, username)
		case "exit":
			fmt.Println("Bye")
			return
		case "":
			continue
		default:
			fmt.Println("Unknown command. Commands: login, register, exit")
		}
	}
}
