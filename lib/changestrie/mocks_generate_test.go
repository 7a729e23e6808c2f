// Copyright 2024 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package changestrie

//go:generate mockgen -destination=mock_logger_test.go -package=$GOPACKAGE . Logger
//go:generate mockgen -destination=mock_storage_test.go -package=$GOPACKAGE . Storage
