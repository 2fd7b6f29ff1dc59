package nix

import (
	"fmt"
	"slices"
	"strings"

	"go.trai.ch/devshell/internal/core/domain"
)

// generateNixExpr renders a descriptor as a mkShell expression.
// Revisions and the packages of each revision are emitted in sorted order so
// that equal descriptors always produce byte-identical expressions.
func generateNixExpr(desc *domain.EnvironmentDescriptor) string {
	system := desc.Platform.String()

	commits := make(map[string][]string)
	allowUnfree := false
	for _, ref := range desc.Packages {
		commits[ref.Rev] = append(commits[ref.Rev], relativeAttrPath(ref.AttrPath, system))
		allowUnfree = allowUnfree || ref.Unfree
	}

	var builder strings.Builder

	builder.WriteString("let\n")
	builder.WriteString(fmt.Sprintf("system = %q;\n", system))

	commitHashes := make([]string, 0, len(commits))
	for hash := range commits {
		commitHashes = append(commitHashes, hash)
	}
	slices.Sort(commitHashes)

	for i, commitHash := range commitHashes {
		builder.WriteString(fmt.Sprintf("flake_%d = builtins.getFlake \"github:NixOS/nixpkgs/%s\";\n", i, commitHash))
		builder.WriteString(fmt.Sprintf("pkgs_%d = import flake_%d { inherit system; config.allowUnfree = %t; };\n",
			i, i, allowUnfree))
	}

	builder.WriteString("in\n")

	mkShell := "pkgs_0.mkShell"
	if len(commitHashes) == 0 {
		mkShell = "(import <nixpkgs> { inherit system; }).mkShell"
	}
	builder.WriteString(mkShell + " {\n")
	builder.WriteString("buildInputs = [\n")

	for i, commitHash := range commitHashes {
		packages := slices.Clone(commits[commitHash])
		slices.Sort(packages)
		for _, pkg := range slices.Compact(packages) {
			builder.WriteString(fmt.Sprintf("pkgs_%d.%s\n", i, pkg))
		}
	}

	builder.WriteString("];\n")
	builder.WriteString(fmt.Sprintf("VENV_DIR = %q;\n", desc.VenvDir))

	if !desc.Hooks.IsEmpty() {
		builder.WriteString("shellHook = ''\n")
		for _, cmd := range desc.Hooks.Setup {
			builder.WriteString(escapeIndented(cmd) + "\n")
		}
		for _, cmd := range desc.Hooks.Activate {
			builder.WriteString(escapeIndented(cmd) + "\n")
		}
		builder.WriteString("'';\n")
	}

	builder.WriteString("}\n")

	return builder.String()
}

// relativeAttrPath strips the legacyPackages.<system> prefix so the attribute
// can be selected from an imported package set.
func relativeAttrPath(attrPath, system string) string {
	for _, prefix := range []string{"legacyPackages." + system + ".", "packages." + system + "."} {
		if rest, ok := strings.CutPrefix(attrPath, prefix); ok {
			return rest
		}
	}
	return attrPath
}

// escapeIndented escapes s for use inside a Nix indented string.
func escapeIndented(s string) string {
	s = strings.ReplaceAll(s, "''", "'''")
	return strings.ReplaceAll(s, "${", "''${")
}
