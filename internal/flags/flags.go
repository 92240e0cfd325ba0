// Copyright 2024 The symbol-ledger-go Authors
// This file is part of the symbol-ledger-go library.
//
// The symbol-ledger-go library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The symbol-ledger-go library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the symbol-ledger-go library. If not, see <http://www.gnu.org/licenses/>.

package flags

import (
	"flag"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/symbol/symbol-ledger-go/accounts"
	"github.com/urfave/cli/v2"
)

// PathString is custom type which is registered in the flags library which cli
// uses for argument parsing. This allows us to expand Value to an absolute path
// when the argument is parsed.
type PathString string

func (s *PathString) String() string {
	return string(*s)
}

func (s *PathString) Set(value string) error {
	*s = PathString(expandPath(value))
	return nil
}

var (
	_ cli.Flag              = (*PathFlag)(nil)
	_ cli.RequiredFlag      = (*PathFlag)(nil)
	_ cli.VisibleFlag       = (*PathFlag)(nil)
	_ cli.DocGenerationFlag = (*PathFlag)(nil)
	_ cli.CategorizableFlag = (*PathFlag)(nil)
)

// PathFlag is custom cli.Flag type which expand the received string to an
// absolute path, e.g. ~/.symledger/config.toml -> /home/username/.symledger/config.toml
type PathFlag struct {
	Name string

	Category    string
	DefaultText string
	Usage       string

	Required   bool
	Hidden     bool
	HasBeenSet bool

	Value PathString

	Aliases []string
	EnvVars []string
}

// For cli.Flag:

func (f *PathFlag) Names() []string { return append([]string{f.Name}, f.Aliases...) }
func (f *PathFlag) IsSet() bool     { return f.HasBeenSet }
func (f *PathFlag) String() string  { return cli.FlagStringer(f) }

// Apply called by cli library, grabs variable from environment (if in env)
// and adds variable to flag set for parsing.
func (f *PathFlag) Apply(set *flag.FlagSet) error {
	for _, envVar := range f.EnvVars {
		envVar = strings.TrimSpace(envVar)
		if value, found := syscall.Getenv(envVar); found {
			f.Value.Set(value)
			f.HasBeenSet = true
			break
		}
	}
	eachName(f, func(name string) {
		set.Var(&f.Value, name, f.Usage)
	})
	return nil
}

// For cli.RequiredFlag:

func (f *PathFlag) IsRequired() bool { return f.Required }

// For cli.VisibleFlag:

func (f *PathFlag) IsVisible() bool { return !f.Hidden }

// For cli.CategorizableFlag:

func (f *PathFlag) GetCategory() string { return f.Category }

// For cli.DocGenerationFlag:

func (f *PathFlag) TakesValue() bool     { return true }
func (f *PathFlag) GetUsage() string     { return f.Usage }
func (f *PathFlag) GetValue() string     { return f.Value.String() }
func (f *PathFlag) GetEnvVars() []string { return f.EnvVars }
func (f *PathFlag) GetDefaultText() string {
	if f.DefaultText != "" {
		return f.DefaultText
	}
	return f.GetValue()
}

var (
	_ cli.Flag              = (*DerivationPathFlag)(nil)
	_ cli.RequiredFlag      = (*DerivationPathFlag)(nil)
	_ cli.VisibleFlag       = (*DerivationPathFlag)(nil)
	_ cli.DocGenerationFlag = (*DerivationPathFlag)(nil)
	_ cli.CategorizableFlag = (*DerivationPathFlag)(nil)
)

// DerivationPathFlag is a command line flag that accepts a Symbol derivation
// path, e.g. m/44'/4343'/0'/0'/0'.
type DerivationPathFlag struct {
	Name string

	Category    string
	DefaultText string
	Usage       string

	Required   bool
	Hidden     bool
	HasBeenSet bool

	Value        accounts.DerivationPath
	defaultValue accounts.DerivationPath

	Aliases []string
	EnvVars []string
}

// For cli.Flag:

func (f *DerivationPathFlag) Names() []string { return append([]string{f.Name}, f.Aliases...) }
func (f *DerivationPathFlag) IsSet() bool     { return f.HasBeenSet }
func (f *DerivationPathFlag) String() string  { return cli.FlagStringer(f) }

func (f *DerivationPathFlag) Apply(set *flag.FlagSet) error {
	// Set default value so that environment wont be able to overwrite it
	if f.Value != nil {
		f.defaultValue = append(accounts.DerivationPath(nil), f.Value...)
	}
	for _, envVar := range f.EnvVars {
		envVar = strings.TrimSpace(envVar)
		if value, found := syscall.Getenv(envVar); found {
			path, err := accounts.ParseDerivationPath(value)
			if err != nil {
				return fmt.Errorf("could not parse %q from environment variable %q for flag %s: %v", value, envVar, f.Name, err)
			}
			f.Value = path
			f.HasBeenSet = true
			break
		}
	}
	eachName(f, func(name string) {
		set.Var((*pathValue)(&f.Value), name, f.Usage)
	})
	return nil
}

// For cli.RequiredFlag:

func (f *DerivationPathFlag) IsRequired() bool { return f.Required }

// For cli.VisibleFlag:

func (f *DerivationPathFlag) IsVisible() bool { return !f.Hidden }

// For cli.CategorizableFlag:

func (f *DerivationPathFlag) GetCategory() string { return f.Category }

// For cli.DocGenerationFlag:

func (f *DerivationPathFlag) TakesValue() bool     { return true }
func (f *DerivationPathFlag) GetUsage() string     { return f.Usage }
func (f *DerivationPathFlag) GetValue() string     { return (*pathValue)(&f.Value).String() }
func (f *DerivationPathFlag) GetEnvVars() []string { return f.EnvVars }
func (f *DerivationPathFlag) GetDefaultText() string {
	if f.DefaultText != "" {
		return f.DefaultText
	}
	return (*pathValue)(&f.defaultValue).String()
}

// pathValue turns *accounts.DerivationPath into a flag.Value
type pathValue accounts.DerivationPath

func (p *pathValue) String() string {
	if p == nil || len(*p) == 0 {
		return ""
	}
	return accounts.DerivationPath(*p).String()
}

func (p *pathValue) Set(s string) error {
	path, err := accounts.ParseDerivationPath(s)
	if err != nil {
		return err
	}
	*p = pathValue(path)
	return nil
}

// GlobalDerivationPath returns the value of a DerivationPathFlag from the global
// flag set, nil if unset.
func GlobalDerivationPath(ctx *cli.Context, name string) accounts.DerivationPath {
	val := ctx.Generic(name)
	if val == nil {
		return nil
	}
	return accounts.DerivationPath(*val.(*pathValue))
}

// Expands a file path
// 1. replace tilde with users home dir
// 2. expands embedded environment variables
// 3. cleans the path, e.g. /a/b/../c -> /a/c
// Note, it has limitations, e.g. ~someuser/tmp will not be expanded
func expandPath(p string) string {
	if strings.HasPrefix(p, "~/") || strings.HasPrefix(p, "~\\") {
		if home := HomeDir(); home != "" {
			p = home + p[1:]
		}
	}
	return filepath.Clean(os.ExpandEnv(p))
}

// HomeDir returns the home directory of the current user.
func HomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func eachName(f cli.Flag, fn func(string)) {
	for _, name := range f.Names() {
		name = strings.Trim(name, " ")
		fn(name)
	}
}
