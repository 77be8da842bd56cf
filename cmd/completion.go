package cmd

import (
	"fmt"
	"os"
)

// Completion outputs shell completion scripts
func Completion(shell string) {
	switch shell {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	case "fish":
		fmt.Print(fishCompletion)
	default:
		fmt.Fprintf(os.Stderr, "Unknown shell: %s\nSupported: bash, zsh, fish\n", shell)
		os.Exit(1)
	}
}

const bashCompletion = `_passholder() {
    local cur prev words cword
    _init_completion || return

    local commands="init add list get copy search update rm passwd status compact keyring completion help"

    if [[ $cword -eq 1 ]]; then
        COMPREPLY=($(compgen -W "$commands" -- "$cur"))
        return
    fi

    local cmd="${words[1]}"
    case "$cmd" in
        get)
            COMPREPLY=($(compgen -W "--show --vault" -- "$cur"))
            ;;
        copy)
            COMPREPLY=($(compgen -W "--id --no-clear --vault" -- "$cur"))
            ;;
        rm)
            COMPREPLY=($(compgen -W "--force --vault" -- "$cur"))
            ;;
        init)
            COMPREPLY=($(compgen -W "--iterations --vault" -- "$cur"))
            ;;
        keyring)
            COMPREPLY=($(compgen -W "save delete status" -- "$cur"))
            ;;
        help)
            COMPREPLY=($(compgen -W "$commands" -- "$cur"))
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "$cur"))
            ;;
        *)
            COMPREPLY=($(compgen -W "--vault" -- "$cur"))
            ;;
    esac
}

complete -F _passholder passholder
`

const zshCompletion = `#compdef passholder

_passholder() {
    local -a commands
    commands=(
        'init:Create a new vault'
        'add:Add a new record'
        'list:List stored records'
        'get:Show a single record'
        'copy:Copy a password to the clipboard'
        'search:Search records by service'
        'update:Edit an existing record'
        'rm:Remove a record'
        'passwd:Change the master password'
        'status:Show vault status'
        'compact:Compact the vault file'
        'keyring:Manage the OS keyring cache'
        'completion:Generate shell completions'
        'help:Show help for a command'
    )

    if (( CURRENT == 2 )); then
        _describe 'command' commands
        return
    fi

    case "${words[2]}" in
        keyring)
            _values 'action' save delete status
            ;;
        completion)
            _values 'shell' bash zsh fish
            ;;
        help)
            _describe 'command' commands
            ;;
    esac
}

_passholder
`

const fishCompletion = `complete -c passholder -f

set -l commands init add list get copy search update rm passwd status compact keyring completion help

complete -c passholder -n "not __fish_seen_subcommand_from $commands" -a init -d 'Create a new vault'
complete -c passholder -n "not __fish_seen_subcommand_from $commands" -a add -d 'Add a new record'
complete -c passholder -n "not __fish_seen_subcommand_from $commands" -a list -d 'List stored records'
complete -c passholder -n "not __fish_seen_subcommand_from $commands" -a get -d 'Show a single record'
complete -c passholder -n "not __fish_seen_subcommand_from $commands" -a copy -d 'Copy a password to the clipboard'
complete -c passholder -n "not __fish_seen_subcommand_from $commands" -a search -d 'Search records by service'
complete -c passholder -n "not __fish_seen_subcommand_from $commands" -a update -d 'Edit an existing record'
complete -c passholder -n "not __fish_seen_subcommand_from $commands" -a rm -d 'Remove a record'
complete -c passholder -n "not __fish_seen_subcommand_from $commands" -a passwd -d 'Change the master password'
complete -c passholder -n "not __fish_seen_subcommand_from $commands" -a status -d 'Show vault status'
complete -c passholder -n "not __fish_seen_subcommand_from $commands" -a compact -d 'Compact the vault file'
complete -c passholder -n "not __fish_seen_subcommand_from $commands" -a keyring -d 'Manage the OS keyring cache'
complete -c passholder -n "not __fish_seen_subcommand_from $commands" -a completion -d 'Generate shell completions'
complete -c passholder -n "__fish_seen_subcommand_from keyring" -a 'save delete status'
complete -c passholder -n "__fish_seen_subcommand_from completion" -a 'bash zsh fish'
`
