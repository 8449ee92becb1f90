// Package model はドメインモデルを定義する。
package model

import "time"

// Post はブログ記事を表す。Contentはサニタイズ済みHTML。
type Post struct {
	ID        string
	Title     string
	Content   string
	Author    string
	CreatedAt time.Time
}
