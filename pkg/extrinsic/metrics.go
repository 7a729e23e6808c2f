// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package extrinsic

import (
	"github.com/ChainSafe/gossamer-primitives/lib/transaction"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeValid       = "valid"
	outcomeInvalid     = "invalid"
	outcomeUnknown     = "unknown"
	outcomeSuccess     = "success"
	outcomeCallFailed  = "call_failed"
	outcomePreDispatch = "pre_dispatch_failed"
)

var (
	validatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "primitives_extrinsic",
		Name:      "validated_total",
		Help:      "total number of validated extrinsics by outcome",
	}, []string{"outcome"})
	appliedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "primitives_extrinsic",
		Name:      "applied_total",
		Help:      "total number of applied extrinsics by outcome",
	}, []string{"outcome"})
)

func validationOutcome(err error) string {
	switch {
	case err == nil:
		return outcomeValid
	case transaction.IsUnknown(err):
		return outcomeUnknown
	default:
		return outcomeInvalid
	}
}
