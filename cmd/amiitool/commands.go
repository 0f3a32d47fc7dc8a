// go-amiibo
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-amiibo.
//
// go-amiibo is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-amiibo is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-amiibo; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ZaparooProject/go-amiibo"
	"github.com/ZaparooProject/go-amiibo/internal/config"
	"github.com/ZaparooProject/go-amiibo/tagops"
)

var errNoKeys = errors.New("no retail key: pass --keys or set keys in the config file")

// app is the state shared by every subcommand of one invocation.
type app struct {
	stdout     io.Writer
	cfg        *config.Config
	keys       *tagops.KeyRing
	ops        *tagops.TagOperations
	configPath string
	keysPath   string
	sessionDir string
	debug      bool
	sessionLog bool
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	a := &app{stdout: stdout, keys: tagops.NewKeyRing(nil)}

	root := &cobra.Command{
		Use:           "amiitool",
		Short:         "Decrypt, re-sign and generate amiibo NTAG215 dumps",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return amiibo.CloseSessionLog()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default ./amiitool.yaml)")
	root.PersistentFlags().StringVarP(&a.keysPath, "keys", "k", "", "retail key file (160 bytes)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug output")
	root.PersistentFlags().BoolVar(&a.sessionLog, "session-log", false, "write a timestamped session log")
	root.PersistentFlags().StringVar(&a.sessionDir, "session-dir", "", "directory for session logs")

	root.AddCommand(
		a.decryptCmd(),
		a.encryptCmd(),
		a.verifyCmd(),
		a.generateCmd(),
		a.setUIDCmd(),
		a.blankCmd(),
		a.infoCmd(),
	)
	return root
}

// setup merges the config file with flags. Flags win.
func (a *app) setup() error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.Load(a.configPath)
	} else {
		a.cfg, _, err = config.Find(config.DefaultPaths()...)
	}
	if err != nil {
		return err
	}

	if a.keysPath == "" {
		a.keysPath = a.cfg.Keys
	}
	if a.sessionDir == "" {
		a.sessionDir = a.cfg.Logging.SessionDir
	}
	if a.debug || a.cfg.Logging.Debug {
		amiibo.SetDebugEnabled(true)
	}
	if a.sessionLog || a.sessionDir != "" {
		path, err := amiibo.InitSessionLog(a.sessionDir)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(a.stdout, "Session log: %s\n", path)
	}

	if a.keysPath != "" {
		if err := a.keys.LoadFile(a.keysPath); err != nil {
			return err
		}
	}
	a.ops = tagops.New(a.keys)
	return nil
}

func (a *app) requireKeys() error {
	if !a.keys.Loaded() {
		return errNoKeys
	}
	return nil
}

func (a *app) out(path string) string {
	return outputPath(a.cfg.OutputDir, path)
}

func (a *app) decryptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decrypt <in.bin> <out.bin>",
		Short: "Decrypt an amiibo and check its signatures",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.requireKeys(); err != nil {
				return err
			}
			tag, err := readDump(args[0])
			if err != nil {
				return err
			}
			if err := a.ops.Unpack(tag); err != nil {
				return err
			}
			return writeDump(a.out(args[1]), tag)
		},
	}
}

func (a *app) encryptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encrypt <in.bin> <out.bin>",
		Short: "Sign and encrypt a decrypted amiibo",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.requireKeys(); err != nil {
				return err
			}
			tag, err := readDump(args[0])
			if err != nil {
				return err
			}
			if err := a.ops.Pack(tag); err != nil {
				return err
			}
			return writeDump(a.out(args[1]), tag)
		},
	}
}

func (a *app) verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <in.bin>",
		Short: "Check the signatures of an encrypted amiibo",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.requireKeys(); err != nil {
				return err
			}
			tag, err := readDump(args[0])
			if err != nil {
				return err
			}
			if err := a.ops.Verify(tag); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(a.stdout, "%s: signature valid\n", args[0])
			return nil
		},
	}
}

func (a *app) generateCmd() *cobra.Command {
	var id, headerPath string
	cmd := &cobra.Command{
		Use:   "generate <out.bin>",
		Short: "Generate a new signed amiibo for an 8-byte identifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.requireKeys(); err != nil {
				return err
			}
			raw, err := parseHex(id, amiibo.SizeAmiiboID)
			if err != nil {
				return fmt.Errorf("--id: %w", err)
			}
			var uuid [amiibo.SizeAmiiboID]byte
			copy(uuid[:], raw)

			tag := amiibo.NewTagImage()
			header, rf, err := a.ops.Mint(uuid, tag)
			if err != nil {
				return err
			}
			if err := writeDump(a.out(args[0]), tag); err != nil {
				return err
			}
			if headerPath != "" {
				if err := writeHeader(a.out(headerPath), header); err != nil {
					return err
				}
			}
			_, _ = fmt.Fprintf(a.stdout, "Generated %s %s\n", tag.AmiiboID(), rf)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "amiibo identifier, 16 hex digits")
	cmd.Flags().StringVar(&headerPath, "header", "", "also write the NTAG21x metadata header here")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func (a *app) setUIDCmd() *cobra.Command {
	var uidHex string
	cmd := &cobra.Command{
		Use:   "setuid <in.bin> <out.bin>",
		Short: "Move an encrypted amiibo to a new (or random) UID",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.requireKeys(); err != nil {
				return err
			}
			var uid []byte
			if uidHex != "" {
				var err error
				if uid, err = parseHex(uidHex, amiibo.UIDLength); err != nil {
					return fmt.Errorf("--uid: %w", err)
				}
			}
			tag, err := readDump(args[0])
			if err != nil {
				return err
			}
			rf, err := a.ops.ChangeUID(tag, uid)
			if err != nil {
				return err
			}
			if err := writeDump(a.out(args[1]), tag); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(a.stdout, "New identity: %s\n", rf)
			return nil
		},
	}
	cmd.Flags().StringVar(&uidHex, "uid", "", "7-byte UID in hex (random if empty)")
	return cmd
}

func (a *app) blankCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "blank <in.bin> <out.bin>",
		Short: "Turn a dump into an open, writable NTAG215 template",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			tag, err := readDump(args[0])
			if err != nil {
				return err
			}
			rf, err := a.ops.Blank(tag)
			if err != nil {
				return err
			}
			if err := writeDump(a.out(args[1]), tag); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(a.stdout, "Blank template: %s\n", rf)
			return nil
		},
	}
}

func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <in.bin>",
		Short: "Describe a dump",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			tag, err := readDump(args[0])
			if err != nil {
				return err
			}
			info, err := a.ops.GetTagInfo(tag)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(a.stdout, info.Summary())
			if info.FullDump {
				_, _ = fmt.Fprintf(a.stdout, "Character: %04X variant %d type %d model %04X series %d\n",
					info.Model.CharacterID, info.Model.Variant, info.Model.FigureType,
					info.Model.ModelNumber, info.Model.Series)
				_, _ = fmt.Fprintf(a.stdout, "Password: %X (matches UID: %t)\n", info.Password[:], info.PasswordMatch)
			}
			return nil
		},
	}
}
