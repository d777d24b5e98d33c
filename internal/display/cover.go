// Copyright (c) 2026 Inkdex. All rights reserved.
// Author: thanh.phamduy.vn@gmail.com

package display

import "time"

// Cover is a scanned cover image attached to one issue. The pixel payload
// lives in external object storage; this row holds scan bookkeeping only.
type Cover struct {
	ID int64

	IssueID int64

	Marked       bool
	IsWraparound bool

	// Crop box for the front face of a wraparound scan.
	FrontLeft   int
	FrontRight  int
	FrontTop    int
	FrontBottom int

	LastUpload time.Time

	Reserved bool
}

func (c *Cover) Kind() Kind                { return KindCover }
func (c *Cover) EntityID() int64           { return c.ID }
func (c *Cover) SetReserved(reserved bool) { c.Reserved = reserved }
