// utils/codes.go
package utils

import (
	"fmt"
	"time"
)

func GenStokisOrderNo(seq int64, t time.Time) string {
	return fmt.Sprintf("SO-%d-%06d", t.Year(), seq)
}

func GenMitraOrderNo(seq int64, t time.Time) string {
	return fmt.Sprintf("MO-%d-%06d", t.Year(), seq)
}

func GenInvoiceNo(seq int64, t time.Time) string {
	return fmt.Sprintf("INV-%d-%06d", t.Year(), seq)
}
