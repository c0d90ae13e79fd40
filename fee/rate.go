// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fee

import (
	"fmt"

	"github.com/blinklabs-io/gouroboros/cbor"
	"github.com/shopspring/decimal"
)

// Rate is the fee charged per byte of newly consumed storage
type Rate struct {
	// Metadata applies to badge definitions and metadata edits
	Metadata decimal.Decimal `json:"metadata"`
	// Key applies to claim keys added to a whitelist
	Key decimal.Decimal `json:"key"`
}

func (r Rate) Validate() error {
	if r.Metadata.IsNegative() || r.Key.IsNegative() {
		return ErrNegativeRate
	}
	return nil
}

type rateRecord struct {
	cbor.StructAsArray
	Metadata string
	Key      string
}

func (r Rate) MarshalCBOR() ([]byte, error) {
	return cbor.Encode(&rateRecord{
		Metadata: r.Metadata.String(),
		Key:      r.Key.String(),
	})
}

func (r *Rate) UnmarshalCBOR(data []byte) error {
	var rec rateRecord
	if _, err := cbor.Decode(data, &rec); err != nil {
		return err
	}
	metadata, err := decimal.NewFromString(rec.Metadata)
	if err != nil {
		return fmt.Errorf("decode metadata rate: %w", err)
	}
	key, err := decimal.NewFromString(rec.Key)
	if err != nil {
		return fmt.Errorf("decode key rate: %w", err)
	}
	r.Metadata = metadata
	r.Key = key
	return nil
}
