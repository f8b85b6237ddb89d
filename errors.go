/*
 * errors.go, part of gorestraint.
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

package restraint

import (
	"errors"
	"fmt"
	"strings"
)

//Kinds of errors. Use errors.Is to check an error returned by the library
//against them.
var (
	//A parameter record that can't give a working restraint.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	//A call with arguments the function can't work with.
	ErrInvalidArgument = errors.New("invalid argument")
	//The sample counters don't match the window at an update. This is a scheduling bug.
	ErrInternalConsistency = errors.New("internal consistency")
	//The ensemble collaborator failed to reduce the data.
	ErrReductionFailure = errors.New("ensemble reduction failure")
)

//Error is the general structure for errors in the library. It fullfills DecoratedError.
type Error struct {
	message  string
	kind     error
	cause    error
	deco     []string
	critical bool
}

//NewError returns an error of the given kind. Errors of the kind ErrInternalConsistency are critical.
func NewError(kind error, message string, caller string) *Error {
	e := &Error{message: message, kind: kind, critical: kind == ErrInternalConsistency}
	e.Decorate(caller)
	return e
}

//WrapError returns an error of the given kind caused by cause.
func WrapError(kind error, cause error, caller string) *Error {
	e := NewError(kind, cause.Error(), caller)
	e.cause = cause
	return e
}

//Error returns a string with the error message and the call stack recorded
//by the decorations.
func (err *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", err.kind, err.message)
	if len(err.deco) > 0 {
		msg = fmt.Sprintf("%s (%s)", msg, strings.Join(err.deco, " <- "))
	}
	return msg
}

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice.
func (err *Error) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

//Critical returns true if the error is critical, i.e., the simulation should not go on.
func (err *Error) Critical() bool { return err.critical }

//Kind returns the kind of the error.
func (err *Error) Kind() error { return err.kind }

//Unwrap gives access to the kind and, if present, the cause of the error.
func (err *Error) Unwrap() []error {
	if err.cause != nil {
		return []error{err.kind, err.cause}
	}
	return []error{err.kind}
}

//ErrDecorate decorates err with the caller's name if it implements
//DecoratedError, and returns it.
func ErrDecorate(err error, caller string) error {
	var d DecoratedError
	if errors.As(err, &d) {
		d.Decorate(caller)
	}
	return err
}

//IsCritical returns true if err, or an error it wraps, is a critical DecoratedError.
func IsCritical(err error) bool {
	var d DecoratedError
	if errors.As(err, &d) {
		return d.Critical()
	}
	return false
}
