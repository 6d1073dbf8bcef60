// Package cli implements identityctl, the administration command line for
// the identity core.
//
// Usage:
//
//	identityctl [config flags] <command> [arguments]
//
// Commands:
//
//	migrate                 apply database migrations
//	create <username>       create a user (prompts for details and password)
//	show <username>         print a user with groups and authorities
//	search <pattern>        list users by last name (prefix unless % or _ is given)
//	profile <username>      update a user's own profile, optionally the password
//	passwd <username>       change a user's own password
//	reset <username>        set a new password as administrator
//	lock|unlock <username>  lock or unlock an account
//	enable|disable <username>
//	delete <username>       delete a user and all related records
//	groups                  list the known groups
//	login <username>        authenticate and print the token claims
package cli
