// Copyright 2025 Poiesic Systems
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


package store

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/peerscope/core"
)

// MUS serializers for stored records. Written by hand in the generated-code
// style; timestamps are encoded as Unix microseconds.

// IDMUS serializes core.ID values.
var IDMUS = idMUS{}

type idMUS struct{}

func (s idMUS) Marshal(v core.ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s idMUS) Unmarshal(bs []byte) (v core.ID, n int, err error) {
	uv, n, err := varint.Uint64.Unmarshal(bs)
	return core.ID(uv), n, err
}

func (s idMUS) Size(v core.ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

// CompanyRecordMUS serializes CompanyRecord values.
var CompanyRecordMUS = companyRecordMUS{}

type companyRecordMUS struct{}

func (s companyRecordMUS) Marshal(v CompanyRecord, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Name, bs[n:])
	n += ord.String.Marshal(v.Domain, bs[n:])
	n += ord.String.Marshal(v.Description, bs[n:])
	n += ord.String.Marshal(v.Industry, bs[n:])
	n += ord.String.Marshal(v.BusinessModel, bs[n:])
	n += varint.Int.Marshal(v.EmployeeCount, bs[n:])
	n += ord.String.Marshal(v.Location, bs[n:])
	n += varint.PositiveInt.Marshal(len(v.Vector), bs[n:])
	for _, f := range v.Vector {
		n += varint.Float32.Marshal(f, bs[n:])
	}
	n += varint.Int64.Marshal(v.InsertedAt.UnixMicro(), bs[n:])
	n += varint.Int64.Marshal(v.UpdatedAt.UnixMicro(), bs[n:])
	return n
}

func (s companyRecordMUS) Unmarshal(bs []byte) (v CompanyRecord, n int, err error) {
	var n1 int
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	if v.Name, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Domain, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Description, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Industry, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.BusinessModel, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.EmployeeCount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if v.Location, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	var length int
	if length, n1, err = varint.PositiveInt.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if length > 0 {
		v.Vector = make([]float32, length)
		for i := 0; i < length; i++ {
			if v.Vector[i], n1, err = varint.Float32.Unmarshal(bs[n:]); err != nil {
				return
			}
			n += n1
		}
	}
	var micros int64
	if micros, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	v.InsertedAt = time.UnixMicro(micros).UTC()
	if micros, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	v.UpdatedAt = time.UnixMicro(micros).UTC()
	return
}

func (s companyRecordMUS) Size(v CompanyRecord) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Name)
	size += ord.String.Size(v.Domain)
	size += ord.String.Size(v.Description)
	size += ord.String.Size(v.Industry)
	size += ord.String.Size(v.BusinessModel)
	size += varint.Int.Size(v.EmployeeCount)
	size += ord.String.Size(v.Location)
	size += varint.PositiveInt.Size(len(v.Vector))
	for _, f := range v.Vector {
		size += varint.Float32.Size(f)
	}
	size += varint.Int64.Size(v.InsertedAt.UnixMicro())
	size += varint.Int64.Size(v.UpdatedAt.UnixMicro())
	return size
}

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, IDMUS.Size(id))
	IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := IDMUS.Unmarshal(data)
	return id, err
}

// MarshalCompanyRecord serializes a CompanyRecord to bytes.
func MarshalCompanyRecord(record *CompanyRecord) []byte {
	buf := make([]byte, CompanyRecordMUS.Size(*record))
	CompanyRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalCompanyRecord deserializes a CompanyRecord from bytes.
func UnmarshalCompanyRecord(data []byte) (*CompanyRecord, error) {
	record, _, err := CompanyRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
