package feature

import (
	"context"
	"fmt"
	"strings"

	"github.com/jedrzejginter/toolkit/pkg/errors"
	"github.com/jedrzejginter/toolkit/pkg/manifest"
)

// OwnPackage is the toolkit's own npm package. Scaffolded projects depend on
// it for the shared lint, format and hook configs.
const OwnPackage = "@ginterdev/toolkit"

// BaseName labels the base resolver in plans and errors.
const BaseName = "base"

// GitignoreSource is the upstream Node.js .gitignore every project gets.
const GitignoreSource = "https://raw.githubusercontent.com/github/gitignore/master/Node.gitignore"

// Resolve runs the resolver of f. An undeclared feature is an error, never a
// silent no-op.
func Resolve(ctx context.Context, f Feature, cfg Config, em Emitter) (manifest.Patch, error) {
	switch f {
	case React:
		return react(ctx, cfg, em)
	case NextJS:
		return nextjs(ctx, cfg, em)
	case Tailwind:
		return tailwind(ctx, cfg, em)
	case Docker:
		return docker(ctx, cfg, em)
	case Jest:
		return jest(ctx, cfg, em)
	case TypeScript:
		return typescript(ctx, cfg, em)
	case GitHubCI:
		return githubCI(ctx, cfg, em)
	case VSCode:
		return vscode(ctx, cfg, em)
	default:
		return manifest.Patch{}, errors.New(errors.ErrCodeInvalidFeature, "no resolver for %s", f)
	}
}

// Base is the common resolver: lint, format and git hook tooling every
// project gets.
func Base(ctx context.Context, cfg Config, em Emitter) (manifest.Patch, error) {
	major := fmt.Sprint(cfg.NodeMajor())
	err := emit(ctx, em, BaseName,
		File{Path: ".gitattributes", Source: "_gitattributes"},
		File{Path: ".gitignore", Source: GitignoreSource},
		File{Path: ".npmrc", Source: "_npmrc"},
		File{Path: ".nvmrc", Source: "_nvmrc", Vars: map[string]string{"NODE_VERSION_MAJOR": major}},
		reexport("husky", ".huskyrc.js"),
		reexport("lintstaged", ".lintstagedrc.js"),
		reexport("eslint", ".eslintrc.js"),
		reexport("prettier", ".prettierrc.js"),
	)
	if err != nil {
		return manifest.Patch{}, err
	}

	airbnb := "eslint-config-airbnb-base"
	switch {
	case cfg.Has(TypeScript):
		airbnb = "eslint-config-airbnb-typescript"
	case cfg.Has(React):
		airbnb = "eslint-config-airbnb"
	}

	return manifest.NewPatch(
		map[string]string{
			"eslint": fmt.Sprintf("eslint --ext '%s' --ignore-pattern '!.*.js'", strings.Join(eslintExtensions(cfg), ",")),
			"lint":   cfg.Packager().RunScript("eslint", "."),
		},
		[]string{OwnPackage},
		[]string{
			airbnb,
			"eslint-config-prettier",
			"eslint-import-resolver-alias",
			"eslint-plugin-import",
			"eslint-plugin-prettier",
			"eslint",
			"husky",
			"lint-staged",
			"prettier",
			"prettier-plugin-package",
		},
	), nil
}

func eslintExtensions(cfg Config) []string {
	ext := []string{".js"}
	if cfg.Has(React) {
		ext = append(ext, ".jsx")
	}
	if cfg.Has(TypeScript) {
		ext = append(ext, ".ts")
		if cfg.Has(React) {
			ext = append(ext, ".tsx")
		}
	}
	return ext
}

// reexport emits a config file that re-exports the toolkit's own module.
func reexport(module, dest string) File {
	return File{
		Path:   dest,
		Source: "export-require",
		Vars:   map[string]string{"IMPORT_SOURCE": OwnPackage + "/" + module},
	}
}

func react(ctx context.Context, cfg Config, em Emitter) (manifest.Patch, error) {
	var files []File
	for _, c := range []string{"Checkbox", "Input", "Spinner"} {
		dir := "src/components/" + c + "/"
		files = append(files,
			File{Path: dir + c + ".tsx", Source: "react-components/" + c + ".tsx"},
			File{Path: dir + "index.ts", Source: "export-default-esm", Vars: map[string]string{"SPECIFIER": c}},
		)
	}
	if err := emit(ctx, em, React.String(), files...); err != nil {
		return manifest.Patch{}, err
	}

	devDeps := []string{"eslint-plugin-jsx-a11y", "eslint-plugin-react", "eslint-plugin-react-hooks"}
	if cfg.Has(TypeScript) {
		devDeps = append(devDeps, "@types/react", "@types/react-dom")
	}
	return manifest.NewPatch(nil, []string{"react", "react-dom"}, devDeps), nil
}

func nextjs(ctx context.Context, cfg Config, em Emitter) (manifest.Patch, error) {
	files := []File{
		{Path: ".env.example", Source: "_env.example"},
		{Path: ".env", Source: "_env.example"},
		{Path: "next.config.js", Source: "_next.config.js"},
		{Path: ".babelrc.js", Source: "_next-babelrc.js"},
		{Path: "pages", Source: "next-pages", Dir: true},
		{Path: "src/assets/icons", Source: "icons", Dir: true},
	}
	if cfg.Has(TypeScript) {
		files = append(files,
			File{Path: "dts/env.d.ts", Source: "_env-dts"},
			File{Path: "dts/babel-plugins.d.ts", Source: "_babel-plugins-dts"},
		)
	}
	if err := emit(ctx, em, NextJS.String(), files...); err != nil {
		return manifest.Patch{}, err
	}

	return manifest.NewPatch(
		map[string]string{
			"build": "NODE_ENV=production next build",
			"dev":   "NODE_ENV=development next -p 3001",
			"start": "NODE_ENV=production next start",
		},
		[]string{"envalid", "next"},
		[]string{"babel-plugin-module-resolver", "babel-plugin-inline-react-svg"},
	), nil
}

func tailwind(ctx context.Context, cfg Config, em Emitter) (manifest.Patch, error) {
	files := []File{
		{Path: "src/assets/css/tailwind.css", Source: "_tailwind.css"},
		{Path: "tailwind.config.js", Source: "_tailwind.config.js"},
	}
	// tailwind v2 needs an explicit PostCSS config; v1 ships its own.
	if !cfg.LegacyBrowserSupport() {
		files = append(files, reexport("postcss", "postcss.config.js"))
	}
	if err := emit(ctx, em, Tailwind.String(), files...); err != nil {
		return manifest.Patch{}, err
	}

	return manifest.NewPatch(
		map[string]string{
			"build:tailwind": "tailwind build src/assets/css/tailwind.css --output public/css/tailwind.out.css",
		},
		[]string{"tailwindcss", "autoprefixer", "postcss"},
		nil,
	), nil
}

func docker(ctx context.Context, cfg Config, em Emitter) (manifest.Patch, error) {
	err := emit(ctx, em, Docker.String(),
		File{Path: ".dockerignore", Source: "_dockerignore"},
		File{Path: "Dockerfile", Source: "_Dockerfile", Vars: map[string]string{"NODE_VERSION": cfg.NodeVersion()}},
		File{Path: "scripts/rewrite-pkg-json.js", Source: "scripts/rewrite-pkg-json.js"},
	)
	return manifest.Patch{}, err
}

func jest(context.Context, Config, Emitter) (manifest.Patch, error) {
	return manifest.NewPatch(
		map[string]string{"test": "NODE_ENV=test jest"},
		nil,
		[]string{"jest", "eslint-plugin-jest"},
	), nil
}

func typescript(ctx context.Context, _ Config, em Emitter) (manifest.Patch, error) {
	err := emit(ctx, em, TypeScript.String(),
		File{Path: "tsconfig.eslint.json", Source: "_tsconfig.eslint.json"},
		File{Path: "tsconfig.json", Source: "_tsconfig.json"},
	)
	if err != nil {
		return manifest.Patch{}, err
	}
	return manifest.NewPatch(
		map[string]string{"typecheck": "tsc --noEmit"},
		nil,
		[]string{"typescript", "@types/node", "@typescript-eslint/eslint-plugin", "@typescript-eslint/parser"},
	), nil
}

func githubCI(ctx context.Context, cfg Config, em Emitter) (manifest.Patch, error) {
	err := emit(ctx, em, GitHubCI.String(),
		File{
			Path:   ".github/workflows/ci.yml",
			Source: "_github/workflows/ci.yml",
			Vars:   map[string]string{"NODE_VERSION": cfg.NodeVersion(), "CI_BRANCH": cfg.CIBranch()},
		},
	)
	return manifest.Patch{}, err
}

func vscode(ctx context.Context, _ Config, em Emitter) (manifest.Patch, error) {
	err := emit(ctx, em, VSCode.String(), File{Path: ".vscode", Source: "_vscode", Dir: true})
	return manifest.Patch{}, err
}
