package receipt

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"

	"github.com/scontrinosmart/receipt-extractor/internal/extract"
	"github.com/scontrinosmart/receipt-extractor/internal/tagging"
)

const sampleReceipt = `CONAD CITY
*****************
02/10/2024 12:04
Mozzarella 2x 1,49
Pomodori 2,30
TOTALE EURO 5,28
CONTANTI 10,00
RESTO 4,72
`

var _ = Describe("Server", func() {
	var (
		service     *Service
		server      *Server
		auth        BasicAuth
		ghttpServer *ghttp.Server
	)

	setupServer := func() {
		if ghttpServer != nil {
			ghttpServer.Close()
		}
		ghttpServer = ghttp.NewServer()
		ghttpServer.AppendHandlers(server.ServeHTTP)
	}

	BeforeEach(func() {
		extractor, err := extract.New(tagging.NewPattern())
		Expect(err).NotTo(HaveOccurred())
		service = NewService(extractor)
		auth = BasicAuth{}
		server = NewServerWithMux(service, auth, http.NewServeMux())
		setupServer()
	})

	AfterEach(func() {
		if ghttpServer != nil {
			ghttpServer.Close()
			ghttpServer = nil
		}
	})

	post := func(contentType string, body string) *http.Response {
		resp, err := http.Post(ghttpServer.URL()+"/api/extract", contentType, strings.NewReader(body))
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	decodeReceipt := func(resp *http.Response) *Receipt {
		defer resp.Body.Close()
		var receipt Receipt
		body, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(json.Unmarshal(body, &receipt)).To(Succeed())
		return &receipt
	}

	Describe("handleExtract", func() {
		When("the body is plain text", func() {
			It("should return status Created", func() {
				resp := post("text/plain", sampleReceipt)
				Expect(resp.StatusCode).To(Equal(http.StatusCreated))
				resp.Body.Close()
			})

			It("should set Content-Type to application/json", func() {
				resp := post("text/plain", sampleReceipt)
				Expect(resp.Header.Get("Content-Type")).To(Equal("application/json"))
				resp.Body.Close()
			})

			It("should return the extracted receipt", func() {
				receipt := decodeReceipt(post("text/plain; charset=utf-8", sampleReceipt))
				Expect(receipt.ID).NotTo(BeEmpty())
				Expect(receipt.StoreName).To(Equal("CONAD CITY"))
				Expect(receipt.Date).To(Equal("2024-10-02"))
				Expect(receipt.DateFound).To(BeTrue())
				Expect(receipt.Total).To(Equal(528))
				Expect(receipt.TotalFound).To(BeTrue())
				Expect(receipt.Items).To(Equal([]Item{
					{Name: "Mozzarella", Quantity: 2, UnitPrice: 149, LineTotal: 298},
					{Name: "Pomodori", Quantity: 1, UnitPrice: 230, LineTotal: 230},
				}))
				Expect(receipt.ItemsTotal).To(Equal(528))
			})
		})

		When("the body is JSON", func() {
			It("should read the text field", func() {
				payload, err := json.Marshal(map[string]string{"text": sampleReceipt})
				Expect(err).NotTo(HaveOccurred())
				receipt := decodeReceipt(post("application/json", string(payload)))
				Expect(receipt.StoreName).To(Equal("CONAD CITY"))
				Expect(receipt.Total).To(Equal(528))
			})
		})

		When("the JSON body is malformed", func() {
			It("should return status Bad Request", func() {
				resp := post("application/json", `{"text": `)
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
				resp.Body.Close()
			})
		})

		When("the body is empty", func() {
			It("should return status Bad Request with an error message", func() {
				resp := post("text/plain", "   ")
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
				var body map[string]string
				Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
				Expect(body["error"]).To(Equal("No receipt text provided"))
			})
		})

		When("the body is too large", func() {
			It("should return status Request Entity Too Large", func() {
				resp := post("text/plain", strings.Repeat("a", maxTextSize+1))
				Expect(resp.StatusCode).To(Equal(http.StatusRequestEntityTooLarge))
				resp.Body.Close()
			})
		})

		When("the text has nothing recognizable", func() {
			It("should still return a receipt with defaults", func() {
				receipt := decodeReceipt(post("text/plain", "~~~~\n????"))
				Expect(receipt.StoreName).To(Equal("????"))
				Expect(receipt.TotalFound).To(BeFalse())
				Expect(receipt.DateFound).To(BeFalse())
				Expect(receipt.Date).NotTo(BeEmpty())
				Expect(receipt.Items).To(BeEmpty())
			})
		})

		When("the method is not POST", func() {
			It("should return status Method Not Allowed", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/extract")
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusMethodNotAllowed))
				resp.Body.Close()
			})
		})
	})

	Describe("handleHealth", func() {
		It("should report the tagger", func() {
			resp, err := http.Get(ghttpServer.URL() + "/healthz")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			var body map[string]string
			Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
			Expect(body).To(Equal(map[string]string{"status": "ok", "tagger": "pattern"}))
		})
	})

	Describe("CORS", func() {
		It("should answer preflight requests", func() {
			req, err := http.NewRequest(http.MethodOptions, ghttpServer.URL()+"/api/extract", nil)
			Expect(err).NotTo(HaveOccurred())
			resp, err := http.DefaultClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusNoContent))
			Expect(resp.Header.Get("Access-Control-Allow-Origin")).To(Equal("*"))
		})

		It("should set headers on regular responses", func() {
			resp := post("text/plain", sampleReceipt)
			defer resp.Body.Close()
			Expect(resp.Header.Get("Access-Control-Allow-Methods")).To(ContainSubstring("POST"))
		})
	})

	Describe("basic auth", func() {
		BeforeEach(func() {
			auth = BasicAuth{Username: "user", Password: "pass"}
			server = NewServerWithMux(service, auth, http.NewServeMux())
			setupServer()
		})

		extractWith := func(header string) *http.Response {
			req, err := http.NewRequest(http.MethodPost, ghttpServer.URL()+"/api/extract", bytes.NewBufferString(sampleReceipt))
			Expect(err).NotTo(HaveOccurred())
			req.Header.Set("Content-Type", "text/plain")
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			resp, err := http.DefaultClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			return resp
		}

		When("credentials are missing", func() {
			It("should return status Unauthorized", func() {
				resp := extractWith("")
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
				Expect(resp.Header.Get("WWW-Authenticate")).To(ContainSubstring("Basic"))
			})
		})

		When("credentials are wrong", func() {
			It("should return status Unauthorized", func() {
				resp := extractWith("Basic " + base64.StdEncoding.EncodeToString([]byte("user:nope")))
				Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
				resp.Body.Close()
			})
		})

		When("credentials are correct", func() {
			It("should return status Created", func() {
				resp := extractWith("Basic " + base64.StdEncoding.EncodeToString([]byte("user:pass")))
				Expect(resp.StatusCode).To(Equal(http.StatusCreated))
				resp.Body.Close()
			})
		})

		It("should keep the health check open", func() {
			resp, err := http.Get(ghttpServer.URL() + "/healthz")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			resp.Body.Close()
		})
	})
})
