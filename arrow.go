/*
 * Copyright 2024 ScopeDB, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package clickhouse

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"
)

// QueryArrow executes sql and returns the result as Arrow record batches.
//
// The caller owns the returned records and should Release them.
func (c *Client) QueryArrow(ctx context.Context, sql string) ([]arrow.Record, error) {
	data, err := c.submitQuery(ctx, "query", []byte(sql), FormatArrowStream, nil)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return []arrow.Record{}, nil
	}
	records, err := decodeArrowBatches(data)
	if err != nil {
		return nil, newQueryError("query", nil, err)
	}
	return records, nil
}

// InsertArrow writes the record batches into table in the ArrowStream format.
// The batches must share one schema; columns are matched by name.
//
// Inserting no batches succeeds without contacting the server.
func (c *Client) InsertArrow(ctx context.Context, table string, batches []arrow.Record) (bool, error) {
	if len(batches) == 0 {
		return true, nil
	}

	payload, err := encodeArrowBatches(batches[0].Schema(), batches)
	if err != nil {
		return false, newQueryError("insert", nil, err)
	}

	header := http.Header{}
	header.Set(headerQuery, insertStatement(table, nil, FormatArrowStream))
	if _, err := c.submitQuery(ctx, "insert", payload, "", header); err != nil {
		return false, err
	}
	return true, nil
}

// encodeArrowBatches encodes the given record batches as an Arrow IPC stream.
func encodeArrowBatches(schema *arrow.Schema, batches []arrow.Record) (payload []byte, err error) {
	if len(batches) == 0 {
		return nil, errors.New("cannot encode empty batches")
	}

	var buf bytes.Buffer
	defer func() {
		if err == nil {
			payload = buf.Bytes()
		}
	}()

	writer := ipc.NewWriter(&buf, ipc.WithSchema(schema))
	defer func() {
		err = errors.Join(err, writer.Close())
	}()

	for _, batch := range batches {
		if !batch.Schema().Equal(schema) {
			return nil, errors.New("schema mismatch")
		}
		if err := writer.Write(batch); err != nil {
			return nil, err
		}
	}
	return
}

// decodeArrowBatches decodes the given Arrow IPC stream into record batches.
func decodeArrowBatches(data []byte) ([]arrow.Record, error) {
	reader, err := ipc.NewReader(bytes.NewReader(data), ipc.WithAllocator(memory.DefaultAllocator))
	if err != nil {
		return nil, err
	}
	defer reader.Release()

	batches := make([]arrow.Record, 0)
	for reader.Next() {
		batch := reader.Record()
		batch.Retain()
		batches = append(batches, batch)
	}
	if err := reader.Err(); err != nil {
		for _, batch := range batches {
			batch.Release()
		}
		return nil, err
	}
	return batches, nil
}
