/*
 * errors.go, part of goace.
 *
 * Copyright 2026 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

package clebsch

import (
	"errors"
	"fmt"
)

// Error is the general error type of the package. It carries the
// names of the functions it went through, and a sentinel kind that
// can be tested with errors.Is.
type Error struct {
	message  string
	kind     error
	deco     []string
	critical bool
}

func newError(kind error, message string, caller string) Error {
	return Error{message: message, kind: kind, deco: []string{caller}, critical: true}
}

// Error returns a string with an error message.
func (err Error) Error() string {
	if err.message == "" {
		return err.kind.Error()
	}
	return fmt.Sprintf("%s: %s", err.kind.Error(), err.message)
}

// Unwrap returns the sentinel kind of the error.
func (err Error) Unwrap() error { return err.kind }

// Decorate adds the dec string to the decoration slice of strings of the error,
// and returns the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

// Critical returns whether the error is critical or it can be ignored.
func (err Error) Critical() bool { return err.critical }

// errDecorate adds the caller's name to err if it is an Error of this package.
// Other errors are returned unchanged.
func errDecorate(err error, caller string) error {
	err2, ok := err.(Error)
	if !ok {
		return err
	}
	err2.deco = err2.Decorate(caller)
	return err2
}

var (
	// ErrInvalidMomentum indicates angular momentum quantum numbers that don't
	// define a coupling coefficient, i.e. a negative j or |m|>j.
	ErrInvalidMomentum = errors.New("goACE/clebsch: invalid angular momentum quantum numbers")
)
