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

package ledger

import (
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/symbol/symbol-ledger-go/accounts"
	"github.com/symbol/symbol-ledger-go/core/types"
)

// DefaultScrambleKey is the scramble key the Symbol app transport is opened
// with.
const DefaultScrambleKey = "XYM"

// Outcome labels of the call counter.
const (
	outcomeOK       = "ok"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
	outcomeBusy     = "busy"
)

// Signer is the public surface of a Symbol app session.
type Signer interface {
	AppVersion() (Version, error)
	IsAppSupported() (bool, error)
	ExpectedAppVersion() Version
	Account(path accounts.DerivationPath, network accounts.NetworkType, display bool, chainCode bool, optin bool) (string, error)
	SignTransaction(path accounts.DerivationPath, tx types.Transaction, generationHash string, signerPublicKey string, optin bool) (*SignedTransaction, error)
	SignCosignatureTransaction(path accounts.DerivationPath, aggregate types.Transaction, aggregateHash string, signerPublicKey string, optin bool) (string, error)
	Close() error
}

var _ Signer = (*Ledger)(nil)

// TracedSigner decorates a Signer with logging, metrics and a guard that
// rejects overlapping calls instead of interleaving them on the wire.
//
// TracedSigner 为 Signer 添加日志、指标以及拒绝重叠调用的保护。
type TracedSigner struct {
	inner       Signer
	scrambleKey string

	commsLock chan struct{} // One-element channel used as a try-lock for device comms

	calls   *prometheus.CounterVec
	latency *prometheus.HistogramVec
	log     log.Logger
}

var _ Signer = (*TracedSigner)(nil)

// NewTracedSigner wraps inner, registering its collectors with reg. A nil
// registerer leaves the collectors unregistered. Registering the same scramble
// key twice reuses the collectors of the first registration.
func NewTracedSigner(inner Signer, scrambleKey string, reg prometheus.Registerer) (*TracedSigner, error) {
	if scrambleKey == "" {
		scrambleKey = DefaultScrambleKey
	}
	labels := prometheus.Labels{"scramble_key": scrambleKey}

	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   "symledger",
		Subsystem:   "ledger",
		Name:        "calls_total",
		Help:        "Number of Symbol app operations by outcome.",
		ConstLabels: labels,
	}, []string{"op", "outcome"})

	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   "symledger",
		Subsystem:   "ledger",
		Name:        "call_duration_seconds",
		Help:        "Duration of Symbol app operations, including user confirmation on the device.",
		ConstLabels: labels,
		Buckets:     []float64{.01, .05, .1, .5, 1, 5, 15, 30, 60, 120},
	}, []string{"op"})

	if reg != nil {
		var err error
		if calls, err = register(reg, calls); err != nil {
			return nil, err
		}
		if latency, err = register(reg, latency); err != nil {
			return nil, err
		}
	}
	t := &TracedSigner{
		inner:       inner,
		scrambleKey: scrambleKey,
		commsLock:   make(chan struct{}, 1),
		calls:       calls,
		latency:     latency,
		log:         log.New("scramble", scrambleKey),
	}
	t.commsLock <- struct{}{}
	return t, nil
}

// register adds the collector to reg, or returns the identical collector that
// is already registered there.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// trace runs a single operation with the comms lock held, recording its
// outcome and duration. A call overlapping another one is rejected.
func (t *TracedSigner) trace(op string, fn func() error) error {
	select {
	case <-t.commsLock:
	default:
		t.calls.WithLabelValues(op, outcomeBusy).Inc()
		t.log.Warn("Rejected overlapping Ledger call", "op", op)
		return ErrSessionBusy
	}
	defer func() { t.commsLock <- struct{}{} }()

	return t.observe(op, fn)
}

// observe runs fn and records its outcome and duration. The caller must hold
// the comms lock.
func (t *TracedSigner) observe(op string, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	t.latency.WithLabelValues(op).Observe(elapsed.Seconds())
	t.calls.WithLabelValues(op, outcome(err)).Inc()

	if err != nil {
		t.log.Debug("Ledger call failed", "op", op, "elapsed", common.PrettyDuration(elapsed), "err", err)
	} else {
		t.log.Debug("Ledger call completed", "op", op, "elapsed", common.PrettyDuration(elapsed))
	}
	return err
}

// outcome classifies an operation result for the call counter.
func outcome(err error) string {
	if err == nil {
		return outcomeOK
	}
	var status *StatusError
	if errors.As(err, &status) && status.Code == StatusRejectedByUser {
		return outcomeRejected
	}
	return outcomeFailed
}

// ScrambleKey returns the scramble key the signer was opened with.
func (t *TracedSigner) ScrambleKey() string {
	return t.scrambleKey
}

// AppVersion implements Signer.
func (t *TracedSigner) AppVersion() (version Version, err error) {
	err = t.trace("version", func() error {
		version, err = t.inner.AppVersion()
		return err
	})
	return version, err
}

// IsAppSupported implements Signer.
func (t *TracedSigner) IsAppSupported() (supported bool, err error) {
	err = t.trace("supported", func() error {
		supported, err = t.inner.IsAppSupported()
		return err
	})
	return supported, err
}

// ExpectedAppVersion implements Signer. It does not talk to the device.
func (t *TracedSigner) ExpectedAppVersion() Version {
	return t.inner.ExpectedAppVersion()
}

// Account implements Signer.
func (t *TracedSigner) Account(path accounts.DerivationPath, network accounts.NetworkType, display bool, chainCode bool, optin bool) (key string, err error) {
	err = t.trace("account", func() error {
		key, err = t.inner.Account(path, network, display, chainCode, optin)
		return err
	})
	return key, err
}

// SignTransaction implements Signer.
func (t *TracedSigner) SignTransaction(path accounts.DerivationPath, tx types.Transaction, generationHash string, signerPublicKey string, optin bool) (signed *SignedTransaction, err error) {
	err = t.trace("sign", func() error {
		signed, err = t.inner.SignTransaction(path, tx, generationHash, signerPublicKey, optin)
		return err
	})
	return signed, err
}

// SignCosignatureTransaction implements Signer.
func (t *TracedSigner) SignCosignatureTransaction(path accounts.DerivationPath, aggregate types.Transaction, aggregateHash string, signerPublicKey string, optin bool) (signature string, err error) {
	err = t.trace("cosign", func() error {
		signature, err = t.inner.SignCosignatureTransaction(path, aggregate, aggregateHash, signerPublicKey, optin)
		return err
	})
	return signature, err
}

// Close implements Signer. Unlike the other operations it is never rejected as
// busy: it waits for a call in flight to return and then releases the device.
func (t *TracedSigner) Close() error {
	<-t.commsLock
	defer func() { t.commsLock <- struct{}{} }()

	return t.observe("close", t.inner.Close)
}
