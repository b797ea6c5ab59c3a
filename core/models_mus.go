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

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	// RejectionMUS is a MUS serializer for Rejection.
	RejectionMUS = rejectionMUS{}

	// RunSummaryMUS is a MUS serializer for RunSummary.
	// Times are stored as Unix microseconds and decode in UTC.
	RunSummaryMUS = runSummaryMUS{}

	// VectorMUS serializes embedding vectors as length-prefixed raw float32 values.
	VectorMUS = ord.NewSliceSer[float32](raw.Float32)

	rejectionsMUS = ord.NewSliceSer[Rejection](RejectionMUS)
)

type rejectionMUS struct{}

func (s rejectionMUS) Marshal(v Rejection, bs []byte) (n int) {
	n = ord.String.Marshal(v.ID, bs)
	n += varint.Int.Marshal(v.Status, bs[n:])
	n += ord.String.Marshal(v.Type, bs[n:])
	return n + ord.String.Marshal(v.Reason, bs[n:])
}

func (s rejectionMUS) Unmarshal(bs []byte) (v Rejection, n int, err error) {
	v.ID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Status, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Type, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Reason, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s rejectionMUS) Size(v Rejection) (size int) {
	size = ord.String.Size(v.ID)
	size += varint.Int.Size(v.Status)
	size += ord.String.Size(v.Type)
	return size + ord.String.Size(v.Reason)
}

func (s rejectionMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	return
}

type runSummaryMUS struct{}

func (s runSummaryMUS) Marshal(v RunSummary, bs []byte) (n int) {
	n = ord.String.Marshal(v.RunID, bs)
	n += ord.String.Marshal(v.Source, bs[n:])
	n += ord.String.Marshal(v.Index, bs[n:])
	n += raw.TimeUnixMicroUTC.Marshal(v.StartedAt, bs[n:])
	n += raw.TimeUnixMicroUTC.Marshal(v.FinishedAt, bs[n:])
	n += varint.Int.Marshal(v.InputCount, bs[n:])
	n += varint.Int.Marshal(v.FilteredOut, bs[n:])
	n += varint.Int.Marshal(v.EmbeddingFailures, bs[n:])
	n += varint.Int.Marshal(v.Accepted, bs[n:])
	n += varint.Int.Marshal(v.Rejected, bs[n:])
	n += rejectionsMUS.Marshal(v.Rejections, bs[n:])
	return n + ord.String.Marshal(v.Error, bs[n:])
}

func (s runSummaryMUS) Unmarshal(bs []byte) (v RunSummary, n int, err error) {
	v.RunID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Source, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Index, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.StartedAt, n1, err = raw.TimeUnixMicroUTC.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.FinishedAt, n1, err = raw.TimeUnixMicroUTC.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InputCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.FilteredOut, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.EmbeddingFailures, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Accepted, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Rejected, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Rejections, n1, err = rejectionsMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if len(v.Rejections) == 0 {
		v.Rejections = nil
	}
	v.Error, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s runSummaryMUS) Size(v RunSummary) (size int) {
	size = ord.String.Size(v.RunID)
	size += ord.String.Size(v.Source)
	size += ord.String.Size(v.Index)
	size += raw.TimeUnixMicroUTC.Size(v.StartedAt)
	size += raw.TimeUnixMicroUTC.Size(v.FinishedAt)
	size += varint.Int.Size(v.InputCount)
	size += varint.Int.Size(v.FilteredOut)
	size += varint.Int.Size(v.EmbeddingFailures)
	size += varint.Int.Size(v.Accepted)
	size += varint.Int.Size(v.Rejected)
	size += rejectionsMUS.Size(v.Rejections)
	return size + ord.String.Size(v.Error)
}

func (s runSummaryMUS) Skip(bs []byte) (n int, err error) {
	skips := []func([]byte) (int, error){
		ord.String.Skip,
		ord.String.Skip,
		ord.String.Skip,
		raw.TimeUnixMicroUTC.Skip,
		raw.TimeUnixMicroUTC.Skip,
		varint.Int.Skip,
		varint.Int.Skip,
		varint.Int.Skip,
		varint.Int.Skip,
		varint.Int.Skip,
		rejectionsMUS.Skip,
		ord.String.Skip,
	}
	var n1 int
	for _, skip := range skips {
		n1, err = skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}
