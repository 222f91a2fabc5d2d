package config

import (
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestConfig(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Config Suite")
}

var _ = Describe("Config", func() {
	Describe("DefaultConfig", func() {
		It("returns sane defaults", func() {
			c := DefaultConfig()

			Expect(c.DockerPortGRPC).To(Equal(50051))
			Expect(c.StorageHostGRPC).To(Equal("localhost"))
			Expect(c.RedisURL).To(Equal("redis://localhost:6379"))
			Expect(c.RedisPool.MaxSize).To(Equal(16))
			Expect(c.RedisPool.Timeout).To(Equal(5 * time.Second))
		})
	})

	Describe("LoadFromEnv", func() {
		var c *Config

		BeforeEach(func() {
			c = DefaultConfig()
		})

		AfterEach(func() {
			for _, key := range []string{
				"DOCKER_PORT_GRPC", "STORAGE_HOST_GRPC", "STORAGE_PORT_GRPC",
				"GIS_HOST_GRPC", "GIS_PORT_GRPC", "REDIS__URL",
				"REDIS__POOL__MAX_SIZE", "LOG_CONFIG",
			} {
				os.Unsetenv(key)
			}
		})

		It("overlays set environment variables", func() {
			os.Setenv("DOCKER_PORT_GRPC", "9000")
			os.Setenv("STORAGE_HOST_GRPC", "storage.internal")
			os.Setenv("REDIS__URL", "redis://redis.internal:6379")

			c.LoadFromEnv()

			Expect(c.DockerPortGRPC).To(Equal(9000))
			Expect(c.StorageHostGRPC).To(Equal("storage.internal"))
			Expect(c.RedisURL).To(Equal("redis://redis.internal:6379"))
		})

		It("keeps the default when an integer variable is invalid", func() {
			original := c.DockerPortGRPC
			os.Setenv("DOCKER_PORT_GRPC", "not-a-number")

			c.LoadFromEnv()

			Expect(c.DockerPortGRPC).To(Equal(original))
		})

		It("keeps defaults when nothing is set", func() {
			before := *c
			c.LoadFromEnv()
			Expect(*c).To(Equal(before))
		})
	})

	Describe("Validate", func() {
		It("passes for the default config", func() {
			Expect(DefaultConfig().Validate()).NotTo(HaveOccurred())
		})

		It("rejects an out-of-range grpc port", func() {
			c := DefaultConfig()
			c.DockerPortGRPC = 0
			Expect(c.Validate()).To(HaveOccurred())
		})

		It("rejects a missing storage host", func() {
			c := DefaultConfig()
			c.StorageHostGRPC = ""
			err := c.Validate()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("storage host is required"))
		})

		It("rejects a missing redis url", func() {
			c := DefaultConfig()
			c.RedisURL = ""
			Expect(c.Validate()).To(HaveOccurred())
		})
	})
})
