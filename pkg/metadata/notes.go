package metadata

import (
	"fmt"
	"strings"

	"github.com/skoglund/feature-scan/pkg/model"
)

// Package groups behind the fixed migration heuristics. Matching is on
// external package names extracted from the file.
var (
	databasePackages = []string{"mongoose", "pg", "mysql", "mysql2", "sqlite3", "prisma", "@prisma/client", "sequelize", "knex", "typeorm", "mongodb"}
	sessionPackages  = []string{"express-session", "cookie-session", "connect-redis", "iron-session"}
	socketPackages   = []string{"socket.io", "socket.io-client", "ws"}
	statePackages    = []string{"redux", "@reduxjs/toolkit", "react-redux", "zustand", "mobx", "recoil", "jotai", "valtio"}
	authPackages     = []string{"passport", "jsonwebtoken", "next-auth", "@auth0/auth0-react", "firebase/auth", "bcrypt", "bcryptjs"}
	httpPackages     = []string{"axios", "got", "node-fetch", "superagent", "ky"}
	fsModules        = []string{"fs", "fs/promises", "path", "os", "child_process"}
)

// migrationNotes evaluates note sources in a fixed order: environment
// patterns, then custom rules, then the built-in heuristics. Notes are
// appended as produced; duplicates are the caller's signal that several
// rules fired, so nothing is deduplicated.
func migrationNotes(text string, deps *model.Dependencies, cx model.Complexity, opts Options) []string {
	notes := make([]string, 0)

	for _, ep := range opts.EnvPatterns {
		if ep.Pattern != nil && ep.Pattern.MatchString(text) {
			notes = append(notes, fmt.Sprintf("[%s] %s", ep.Label, ep.Message))
		}
	}

	for _, rule := range opts.CustomRules {
		if rule.Pattern != nil && rule.Pattern.MatchString(text) {
			note := rule.Message
			if rule.Recommendation != "" {
				note += " Recommendation: " + rule.Recommendation
			}
			notes = append(notes, note)
		}
	}

	pkgs := make(map[string]bool, len(deps.External))
	for _, e := range deps.External {
		pkgs[e.Package] = true
	}

	if usesAny(pkgs, httpPackages) || len(deps.APIs) > 0 {
		notes = append(notes, "Integrates with external services over HTTP; endpoints must be re-pointed or proxied in the target stack.")
	}
	if usesAny(pkgs, databasePackages) {
		notes = append(notes, "Talks to a database directly; the data access layer needs a target-stack equivalent.")
	}
	if usesAny(pkgs, sessionPackages) {
		notes = append(notes, "Uses a session store; session handling must be redesigned for the target runtime.")
	}
	if usesAny(pkgs, fsModules) || strings.Contains(text, "require('fs')") || strings.Contains(text, `require("fs")`) {
		notes = append(notes, "Accesses the filesystem; verify the target environment provides equivalent file APIs.")
	}
	if usesAny(pkgs, socketPackages) {
		notes = append(notes, "Uses websockets; real-time transport needs an explicit migration plan.")
	}
	if usesAny(pkgs, statePackages) {
		notes = append(notes, "Depends on a state-management library; global state wiring must be ported deliberately.")
	}
	if usesAny(pkgs, authPackages) {
		notes = append(notes, "Contains authentication logic; credentials and token flows need a security review during migration.")
	}
	if cx.LinesOfCode > opts.LargeFileLines {
		notes = append(notes, fmt.Sprintf("Large file (%d lines); consider splitting before migrating.", cx.LinesOfCode))
	}
	if len(deps.Internal) > opts.CouplingLimit {
		notes = append(notes, fmt.Sprintf("Highly coupled (%d internal dependencies); migrate together with its dependency cluster.", len(deps.Internal)))
	}

	return notes
}

func usesAny(pkgs map[string]bool, candidates []string) bool {
	for _, c := range candidates {
		if pkgs[c] {
			return true
		}
	}
	return false
}
