package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// workerCodePattern matches a worker code: letter prefix plus digit counter.
var workerCodePattern = regexp.MustCompile(`^([A-Za-z]+)([0-9]+)$`)

// trailingDigitsPattern extracts the trailing digit run of an order number.
var trailingDigitsPattern = regexp.MustCompile(`([0-9]+)$`)

// WorkerCodeParts is a worker code split into its allocation components.
// For code "HS12": Prefix "HS", DigitWidth 2, StartingNumber 12.
type WorkerCodeParts struct {
	Prefix         string
	DigitWidth     int
	StartingNumber int64
}

// SplitWorkerCode parses a worker code into prefix, digit width and
// starting number. Returns ErrInvalidWorkerCode when the code does not
// consist of a letter prefix followed by a digit counter.
func SplitWorkerCode(code string) (WorkerCodeParts, error) {
	matches := workerCodePattern.FindStringSubmatch(strings.TrimSpace(code))
	if matches == nil {
		return WorkerCodeParts{}, ErrInvalidWorkerCode
	}
	start, err := strconv.ParseInt(matches[2], 10, 64)
	if err != nil {
		return WorkerCodeParts{}, ErrInvalidWorkerCode
	}
	return WorkerCodeParts{
		Prefix:         matches[1],
		DigitWidth:     len(matches[2]),
		StartingNumber: start,
	}, nil
}

// NextOrderNumber computes the order number that follows lastOrderNumber
// for the given worker code parts. An empty lastOrderNumber (the worker's
// first order) yields the code's starting number itself. A last number
// whose trailing digits do not parse also falls back to the starting
// number.
//
// The suffix is zero-padded to the code's digit width; a counter that
// outgrows the width simply widens (HS99 is followed by HS100).
func NextOrderNumber(parts WorkerCodeParts, lastOrderNumber string) string {
	next := parts.StartingNumber
	if lastOrderNumber != "" {
		if matches := trailingDigitsPattern.FindStringSubmatch(lastOrderNumber); matches != nil {
			if last, err := strconv.ParseInt(matches[1], 10, 64); err == nil {
				next = last + 1
			}
		}
	}
	return fmt.Sprintf("%s%0*d", parts.Prefix, parts.DigitWidth, next)
}
