package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Hemanthkumar2k04/PassHolder/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		runInit(ctx, os.Args[2:])
	case "add":
		runAdd(ctx, os.Args[2:])
	case "list", "ls":
		runList(ctx, os.Args[2:])
	case "get", "show":
		runGet(ctx, os.Args[2:])
	case "copy", "cp":
		runCopy(ctx, os.Args[2:])
	case "search":
		runSearch(ctx, os.Args[2:])
	case "update", "edit":
		runUpdate(ctx, os.Args[2:])
	case "rm", "remove":
		runRm(ctx, os.Args[2:])
	case "passwd":
		runPasswd(ctx, os.Args[2:])
	case "status":
		runStatus(ctx, os.Args[2:])
	case "compact":
		runCompact(ctx, os.Args[2:])
	case "keyring":
		runKeyring(ctx, os.Args[2:])
	case "completion":
		runCompletion(ctx, os.Args[2:])
	case "help", "-h", "--help":
		if len(os.Args) <= 2 {
			printUsage()
			return
		}
		printCommandHelp(os.Args[2])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func vaultFlag(fs *flag.FlagSet) *string {
	return fs.String("vault", "", "Path to the vault file (default: ~/.passholder/secrets.vault)")
}

func parseFlags(fs *flag.FlagSet, args []string) {
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func runInit(_ context.Context, args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	vault := vaultFlag(fs)
	iterations := fs.Int("iterations", 0, "PBKDF2 iteration count (minimum 100000)")
	parseFlags(fs, args)

	cmd.Init(cmd.ResolveVaultPath(*vault), *iterations)
}

func runAdd(_ context.Context, args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	vault := vaultFlag(fs)
	service := fs.String("service", "", "Service name (prompted if omitted)")
	username := fs.String("user", "", "Username (prompted if omitted)")
	notes := fs.String("notes", "", "Free-form notes")
	parseFlags(fs, args)

	// Positional service name is allowed: passholder add github
	svc := *service
	if svc == "" && len(fs.Args()) > 0 {
		svc = fs.Args()[0]
	}

	cmd.Add(cmd.ResolveVaultPath(*vault), svc, *username, "", *notes)
}

func runList(_ context.Context, args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	vault := vaultFlag(fs)
	parseFlags(fs, args)

	cmd.List(cmd.ResolveVaultPath(*vault))
}

func runGet(_ context.Context, args []string) {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	vault := vaultFlag(fs)
	show := fs.Bool("show", false, "Print the password in plaintext")
	parseFlags(fs, args)

	if len(fs.Args()) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: passholder get [--show] <id>")
		os.Exit(1)
	}

	cmd.Get(cmd.ResolveVaultPath(*vault), fs.Args()[0], *show)
}

func runCopy(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("copy", flag.ExitOnError)
	vault := vaultFlag(fs)
	id := fs.String("id", "", "Record id (instead of a service name)")
	noClear := fs.Bool("no-clear", false, "Do not clear the clipboard afterwards")
	parseFlags(fs, args)

	service := ""
	if len(fs.Args()) > 0 {
		service = fs.Args()[0]
	}
	if service == "" && *id == "" {
		fmt.Fprintln(os.Stderr, "Usage: passholder copy [--id <id>] [--no-clear] <service>")
		os.Exit(1)
	}

	cmd.Copy(ctx, cmd.ResolveVaultPath(*vault), service, *id, *noClear)
}

func runSearch(_ context.Context, args []string) {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	vault := vaultFlag(fs)
	parseFlags(fs, args)

	if len(fs.Args()) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: passholder search <query>")
		os.Exit(1)
	}

	cmd.Search(cmd.ResolveVaultPath(*vault), fs.Args()[0])
}

func runUpdate(_ context.Context, args []string) {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	vault := vaultFlag(fs)
	parseFlags(fs, args)

	if len(fs.Args()) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: passholder update <id>")
		os.Exit(1)
	}

	cmd.Update(cmd.ResolveVaultPath(*vault), fs.Args()[0])
}

func runRm(_ context.Context, args []string) {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	vault := vaultFlag(fs)
	force := fs.Bool("force", false, "Remove without confirmation")
	parseFlags(fs, args)

	if len(fs.Args()) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: passholder rm [--force] <id>")
		os.Exit(1)
	}

	cmd.Remove(cmd.ResolveVaultPath(*vault), fs.Args()[0], *force)
}

func runPasswd(_ context.Context, args []string) {
	fs := flag.NewFlagSet("passwd", flag.ExitOnError)
	vault := vaultFlag(fs)
	parseFlags(fs, args)

	cmd.Passwd(cmd.ResolveVaultPath(*vault))
}

func runStatus(_ context.Context, args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	vault := vaultFlag(fs)
	parseFlags(fs, args)

	cmd.Status(cmd.ResolveVaultPath(*vault))
}

func runCompact(_ context.Context, args []string) {
	fs := flag.NewFlagSet("compact", flag.ExitOnError)
	vault := vaultFlag(fs)
	parseFlags(fs, args)

	cmd.Compact(cmd.ResolveVaultPath(*vault))
}

func runKeyring(_ context.Context, args []string) {
	fs := flag.NewFlagSet("keyring", flag.ExitOnError)
	vault := vaultFlag(fs)
	parseFlags(fs, args)

	if len(fs.Args()) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: passholder keyring <save|delete|status>")
		os.Exit(1)
	}

	path := cmd.ResolveVaultPath(*vault)
	switch fs.Args()[0] {
	case "save":
		cmd.KeyringSave(path)
	case "delete":
		cmd.KeyringDelete(path)
	case "status":
		cmd.KeyringStatus(path)
	default:
		fmt.Fprintf(os.Stderr, "Unknown keyring action: %s\n", fs.Args()[0])
		os.Exit(1)
	}
}

func runCompletion(_ context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: passholder completion <bash|zsh|fish>")
		os.Exit(1)
	}
	cmd.Completion(args[0])
}

func printUsage() {
	fmt.Println("passholder - Local password manager with a single master password")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  passholder <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  init        Create a new vault")
	fmt.Println("  add         Add a new record")
	fmt.Println("  list, ls    List stored records (passwords hidden)")
	fmt.Println("  get, show   Show a single record")
	fmt.Println("  copy, cp    Copy a password to the clipboard")
	fmt.Println("  search      Search records by service name")
	fmt.Println("  update      Edit an existing record")
	fmt.Println("  rm          Remove a record")
	fmt.Println("  passwd      Change the master password")
	fmt.Println("  status      Show vault status")
	fmt.Println("  compact     Compact vault to reclaim disk space")
	fmt.Println("  keyring     Manage the OS keyring password cache")
	fmt.Println("  completion  Generate shell completions")
	fmt.Println("  help        Show help for a command")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  passholder init                 # Create a new vault")
	fmt.Println("  passholder add github           # Add a record for github")
	fmt.Println("  passholder copy github          # Copy github password to clipboard")
	fmt.Println("  passholder status               # Check vault status")
	fmt.Println()
	fmt.Println("Use 'passholder help <command>' for more information about a command.")
}

func printCommandHelp(command string) {
	switch command {
	case "init":
		fmt.Println("passholder init [--vault <path>] [--iterations <n>]")
		fmt.Println()
		fmt.Println("Creates a new encrypted vault. Prompts for a master password")
		fmt.Println("that will be required to unlock the vault later.")
		fmt.Println("The password is not stored anywhere - you must remember it.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  --iterations   PBKDF2 iteration count (minimum 100000)")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  passholder init")
		fmt.Println("  passholder init --vault ./work.vault")
	case "add":
		fmt.Println("passholder add [--user <name>] [--notes <text>] [<service>]")
		fmt.Println()
		fmt.Println("Adds a new record to the vault. Missing fields are prompted")
		fmt.Println("interactively; the password is never echoed to the terminal.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  passholder add")
		fmt.Println("  passholder add github --user octocat")
	case "list", "ls":
		fmt.Println("passholder list")
		fmt.Println()
		fmt.Println("Lists all stored records sorted by service name.")
		fmt.Println("Passwords are never shown in the listing.")
	case "get", "show":
		fmt.Println("passholder get [--show] <id>")
		fmt.Println()
		fmt.Println("Shows a single record. The id may be abbreviated to a unique")
		fmt.Println("prefix. The password is masked unless --show is given.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  passholder get 3f2a91c4")
		fmt.Println("  passholder get --show 3f2a91c4")
	case "copy", "cp":
		fmt.Println("passholder copy [--id <id>] [--no-clear] <service>")
		fmt.Println()
		fmt.Println("Copies a record's password to the system clipboard without")
		fmt.Println("printing it. The clipboard is cleared after 30 seconds unless")
		fmt.Println("--no-clear is given. If several records match the service name,")
		fmt.Println("an interactive picker is shown.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  passholder copy github")
		fmt.Println("  passholder copy --id 3f2a91c4 --no-clear")
	case "search":
		fmt.Println("passholder search <query>")
		fmt.Println()
		fmt.Println("Searches records whose service name contains the query")
		fmt.Println("(case insensitive).")
		fmt.Println()
		fmt.Println("Example:")
		fmt.Println("  passholder search git")
	case "update", "edit":
		fmt.Println("passholder update <id>")
		fmt.Println()
		fmt.Println("Edits an existing record interactively. Press Enter to keep")
		fmt.Println("the current value of a field; leaving the password blank keeps")
		fmt.Println("the current password.")
	case "rm", "remove":
		fmt.Println("passholder rm [--force] <id>")
		fmt.Println()
		fmt.Println("Removes a record from the vault. Asks for confirmation unless")
		fmt.Println("--force is given.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  passholder rm 3f2a91c4")
		fmt.Println("  passholder rm --force 3f2a91c4")
	case "passwd":
		fmt.Println("passholder passwd")
		fmt.Println()
		fmt.Println("Changes the master password.")
		fmt.Println("Requires both the current and new passwords.")
		fmt.Println("Re-encrypts all records with the new password.")
	case "status":
		fmt.Println("passholder status")
		fmt.Println()
		fmt.Println("Shows vault status including:")
		fmt.Println("  - Record count")
		fmt.Println("  - Encryption and key derivation details")
		fmt.Println("  - Created/modified timestamps and file size")
		fmt.Println()
		fmt.Println("Does not require the master password.")
	case "compact":
		fmt.Println("passholder compact")
		fmt.Println()
		fmt.Println("Compacts the vault database to reclaim unused disk space.")
		fmt.Println("This is automatically done after 'passwd', but can be run")
		fmt.Println("manually if needed.")
		fmt.Println()
		fmt.Println("Does not require the master password.")
	case "keyring":
		fmt.Println("passholder keyring <save|delete|status>")
		fmt.Println()
		fmt.Println("Manages the master password cached in the OS keyring.")
		fmt.Println()
		fmt.Println("  save     Verify and store the master password in the keyring")
		fmt.Println("  delete   Remove the cached password")
		fmt.Println("  status   Show whether a password is cached")
	case "completion":
		fmt.Println("passholder completion <bash|zsh|fish>")
		fmt.Println()
		fmt.Println("Outputs shell completion script for the specified shell.")
		fmt.Println()
		fmt.Println("Setup:")
		fmt.Println("  # Bash - add to ~/.bashrc")
		fmt.Println("  eval \"$(passholder completion bash)\"")
		fmt.Println()
		fmt.Println("  # Zsh - add to ~/.zshrc")
		fmt.Println("  eval \"$(passholder completion zsh)\"")
		fmt.Println()
		fmt.Println("  # Fish - add to ~/.config/fish/config.fish")
		fmt.Println("  passholder completion fish | source")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
	}
}
