package auth_test

import (
	"time"

	"github.com/frahmantamala/dashboard-portal/internal/auth"
	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("JWTTokenGenerator", func() {
	const secret = "0123456789abcdef0123456789abcdef"

	It("round-trips user id, email and a unique token id", func() {
		gen := auth.NewJWTTokenGenerator(secret, "portal", time.Hour)

		first, expiresAt, err := gen.GenerateAccessToken("u1", "ana@example.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(expiresAt).To(BeTemporally("~", time.Now().Add(time.Hour), 5*time.Second))

		second, _, err := gen.GenerateAccessToken("u1", "ana@example.com")
		Expect(err).NotTo(HaveOccurred())

		a, err := gen.ValidateToken(first)
		Expect(err).NotTo(HaveOccurred())
		b, err := gen.ValidateToken(second)
		Expect(err).NotTo(HaveOccurred())

		Expect(a.UserID).To(Equal("u1"))
		Expect(a.Email).To(Equal("ana@example.com"))
		Expect(a.ID).NotTo(BeEmpty())
		Expect(a.ID).NotTo(Equal(b.ID))
	})

	It("defaults to a 24h lifetime", func() {
		gen := auth.NewJWTTokenGenerator(secret, "", 0)
		Expect(gen.TTL).To(Equal(24 * time.Hour))
	})

	It("reports expired tokens", func() {
		gen := auth.NewJWTTokenGenerator(secret, "portal", time.Hour)
		gen.TTL = -time.Minute
		token, _, err := gen.GenerateAccessToken("u1", "ana@example.com")
		Expect(err).NotTo(HaveOccurred())

		_, err = gen.ValidateToken(token)
		Expect(err).To(MatchError(auth.ErrTokenExpired))
	})

	It("rejects tokens signed with another secret", func() {
		other := auth.NewJWTTokenGenerator("ffffffffffffffffffffffffffffffff", "portal", time.Hour)
		token, _, err := other.GenerateAccessToken("u1", "ana@example.com")
		Expect(err).NotTo(HaveOccurred())

		_, err = auth.NewJWTTokenGenerator(secret, "portal", time.Hour).ValidateToken(token)
		Expect(err).To(MatchError(auth.ErrInvalidToken))
	})

	It("rejects tokens from another issuer", func() {
		token, _, err := auth.NewJWTTokenGenerator(secret, "elsewhere", time.Hour).GenerateAccessToken("u1", "a@b.co")
		Expect(err).NotTo(HaveOccurred())

		_, err = auth.NewJWTTokenGenerator(secret, "portal", time.Hour).ValidateToken(token)
		Expect(err).To(MatchError(auth.ErrInvalidToken))
	})

	It("rejects tokens without a token id", func() {
		claims := &auth.Claims{
			UserID: "u1",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		Expect(err).NotTo(HaveOccurred())

		_, err = auth.NewJWTTokenGenerator(secret, "", time.Hour).ValidateToken(token)
		Expect(err).To(MatchError(auth.ErrInvalidToken))
	})

	It("rejects garbage", func() {
		_, err := auth.NewJWTTokenGenerator(secret, "", time.Hour).ValidateToken("not.a.jwt")
		Expect(err).To(MatchError(auth.ErrInvalidToken))
	})
})
