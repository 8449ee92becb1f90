// Package password はローカル認証用のパスワードハッシュと照合を提供する。
package password

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/raihan/pesonabangka/internal/model"
)

// DefaultCost はbcryptのデフォルトワークファクタ。
const DefaultCost = 10

// Verifier はbcryptによるパスワードの一方向ハッシュと定数時間比較を提供する。
// I/Oは行わず、CPUコスト以外の副作用を持たない。
type Verifier struct {
	cost int
}

// NewVerifier はVerifierを生成する。costが範囲外の場合はDefaultCostを使用する。
func NewVerifier(cost int) *Verifier {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Verifier{cost: cost}
}

// Hash は平文パスワードをソルト付きbcryptハッシュに変換する。
// 変換内部のエラーのみHASHING_FAILUREとして報告する。
func (v *Verifier) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), v.cost)
	if err != nil {
		return "", model.NewHashingFailureError(err)
	}
	return string(hash), nil
}

// Verify は平文パスワードと保存済みcredentialを比較する。
// credentialが連携専用センチネルの場合は常にfalseを返す。
// Googleのみで作成されたアカウントをローカルパスで突破できないようにするため。
// 比較失敗はエラーではなく不一致として扱う。
func (v *Verifier) Verify(plaintext, credential string) bool {
	if credential == model.FederatedCredential {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(credential), []byte(plaintext)) == nil
}
