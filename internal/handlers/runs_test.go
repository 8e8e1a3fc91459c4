package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/kubev2v/jobrunner/api/v1"
	"github.com/kubev2v/jobrunner/internal/config"
	"github.com/kubev2v/jobrunner/internal/handlers"
	"github.com/kubev2v/jobrunner/internal/jobs"
	"github.com/kubev2v/jobrunner/internal/services"
	"github.com/kubev2v/jobrunner/internal/store"
	"github.com/kubev2v/jobrunner/pkg/registry"
	"github.com/kubev2v/jobrunner/test"
)

var _ = Describe("Run handlers", func() {
	var (
		router  *gin.Engine
		st      *store.Store
		srv     *services.RunnerService
		blocker *test.BlockingHandler
	)

	BeforeEach(func() {
		ctx := context.Background()

		db, err := store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())
		st = store.NewStore(db)
		Expect(st.Migrate(ctx)).To(Succeed())

		reg := registry.NewRegistry()
		sim := &jobs.Simulator{MinDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
		sim.Register(reg)
		blocker = test.NewBlockingHandler()
		reg.Register("block", blocker)

		srv = services.NewRunnerService(reg, st, config.Scheduler{Concurrency: 3})

		router = gin.New()
		v1.RegisterHandlers(router.Group("/api/v1"), handlers.New(srv))
	})

	AfterEach(func() {
		blocker.Release()
		srv.Close()
		st.Close()
	})

	do := func(method, path string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	submit := func(req v1.RunRequest) v1.Run {
		w := do(http.MethodPost, "/api/v1/runs", req)
		Expect(w.Code).To(Equal(http.StatusAccepted))

		var run v1.Run
		Expect(json.Unmarshal(w.Body.Bytes(), &run)).To(Succeed())
		return run
	}

	waitFinished := func(id string) v1.Run {
		var run v1.Run
		Eventually(func() v1.RunState {
			w := do(http.MethodGet, "/api/v1/runs/"+id, nil)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(json.Unmarshal(w.Body.Bytes(), &run)).To(Succeed())
			return run.State
		}).Should(Equal(v1.RunStateStopped))
		return run
	}

	Context("POST /runs", func() {
		It("should accept a batch and drain it in the background", func() {
			// Given a batch with one failing record
			req := v1.RunRequest{
				Concurrency: 2,
				Jobs: []v1.JobRequest{
					{Id: "job-1", Type: jobs.TypeEmail, Payload: json.RawMessage(`{"recipient":"a@example.com","subject":"hi"}`)},
					{Id: "job-2", Type: jobs.TypeDataProcess, Payload: json.RawMessage(`{"recordId":14}`)},
				},
			}

			// When it is submitted
			run := submit(req)

			// Then it is accepted and eventually stopped with one rejection
			Expect(run.Id).NotTo(BeEmpty())
			Expect(run.Total).To(Equal(2))
			Expect(run.Concurrency).To(Equal(2))

			final := waitFinished(run.Id)
			Expect(final.Fulfilled).To(Equal(1))
			Expect(final.Rejected).To(Equal(1))
			Expect(final.FinishedAt).NotTo(BeNil())
		})

		It("should return 400 on a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", bytes.NewBufferString("{"))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return 400 when jobs is empty", func() {
			w := do(http.MethodPost, "/api/v1/runs", v1.RunRequest{})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return 400 when a job has no type", func() {
			w := do(http.MethodPost, "/api/v1/runs", v1.RunRequest{Jobs: []v1.JobRequest{{Id: "job-1"}}})
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("job type is empty"))
		})
	})

	Context("GET /runs", func() {
		It("should list submitted runs", func() {
			first := submit(v1.RunRequest{Jobs: []v1.JobRequest{{Id: "a", Type: jobs.TypeEmail}}})
			waitFinished(first.Id)

			w := do(http.MethodGet, "/api/v1/runs", nil)
			Expect(w.Code).To(Equal(http.StatusOK))

			var list v1.RunList
			Expect(json.Unmarshal(w.Body.Bytes(), &list)).To(Succeed())
			Expect(list.Runs).To(HaveLen(1))
			Expect(list.Runs[0].Id).To(Equal(first.Id))
		})

		It("should return an empty list", func() {
			w := do(http.MethodGet, "/api/v1/runs", nil)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(MatchJSON(`{"runs":[]}`))
		})
	})

	Context("GET /runs/{id}", func() {
		It("should return 404 for an unknown run", func() {
			w := do(http.MethodGet, "/api/v1/runs/missing", nil)
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Context("GET /runs/{id}/results", func() {
		var runID string

		BeforeEach(func() {
			run := submit(v1.RunRequest{Jobs: []v1.JobRequest{
				{Id: "job-1", Type: jobs.TypeEmail},
				{Id: "job-2", Type: jobs.TypeDataProcess, Payload: json.RawMessage(`{"recordId":14}`)},
				{Id: "job-3", Type: "bogus"},
				{Id: "job-4", Type: jobs.TypeDataProcess, Payload: json.RawMessage(`{"recordId":3}`)},
			}})
			waitFinished(run.Id)
			runID = run.Id
		})

		results := func(query string) v1.JobResultList {
			w := do(http.MethodGet, "/api/v1/runs/"+runID+"/results"+query, nil)
			Expect(w.Code).To(Equal(http.StatusOK))

			var list v1.JobResultList
			Expect(json.Unmarshal(w.Body.Bytes(), &list)).To(Succeed())
			return list
		}

		It("should return every result", func() {
			list := results("")
			Expect(list.RunId).To(Equal(runID))
			Expect(list.Results).To(HaveLen(4))
		})

		It("should filter by status", func() {
			list := results("?status=rejected")
			Expect(list.Results).To(HaveLen(2))
			for _, r := range list.Results {
				Expect(r.Status).To(Equal(v1.JobResultStatusRejected))
				Expect(r.Error).NotTo(BeNil())
			}
		})

		It("should filter by type", func() {
			list := results("?type=bogus")
			Expect(list.Results).To(HaveLen(1))
			Expect(*list.Results[0].Error).To(Equal("unknown job type: bogus"))
		})

		It("should paginate", func() {
			list := results("?limit=1&offset=1")
			Expect(list.Results).To(HaveLen(1))
		})

		It("should return 400 on an invalid status", func() {
			w := do(http.MethodGet, "/api/v1/runs/"+runID+"/results?status=done", nil)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return 400 on an invalid limit", func() {
			w := do(http.MethodGet, "/api/v1/runs/"+runID+"/results?limit=-1", nil)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return 400 on a non-numeric offset", func() {
			w := do(http.MethodGet, "/api/v1/runs/"+runID+"/results?offset=abc", nil)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("invalid format for parameter offset"))
		})

		It("should return 404 for an unknown run", func() {
			w := do(http.MethodGet, "/api/v1/runs/missing/results", nil)
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Context("GET /runs/{id}/results page size", func() {
		var runID string

		BeforeEach(func() {
			// Given a run with more results than the largest page
			req := v1.RunRequest{Concurrency: 8}
			for i := range 130 {
				req.Jobs = append(req.Jobs, v1.JobRequest{Id: fmt.Sprintf("job-%d", i), Type: jobs.TypeEmail})
			}
			run := submit(req)
			waitFinished(run.Id)
			runID = run.Id
		})

		count := func(query string) int {
			w := do(http.MethodGet, "/api/v1/runs/"+runID+"/results"+query, nil)
			Expect(w.Code).To(Equal(http.StatusOK))

			var list v1.JobResultList
			Expect(json.Unmarshal(w.Body.Bytes(), &list)).To(Succeed())
			return len(list.Results)
		}

		It("should return the default page when no limit is given", func() {
			Expect(count("")).To(Equal(20))
		})

		It("should cap the limit", func() {
			Expect(count("?limit=1000")).To(Equal(100))
		})

		It("should honor a limit below the cap", func() {
			Expect(count("?limit=50&offset=100")).To(Equal(30))
		})
	})

	Context("POST /runs/{id}/stop", func() {
		It("should stop a live run", func() {
			run := submit(v1.RunRequest{Concurrency: 1, Jobs: []v1.JobRequest{
				{Id: "b-1", Type: "block"},
				{Id: "b-2", Type: "block"},
			}})
			Eventually(blocker.Started()).Should(Receive())

			w := do(http.MethodPost, "/api/v1/runs/"+run.Id+"/stop", nil)
			Expect(w.Code).To(Equal(http.StatusAccepted))

			blocker.Release()
			final := waitFinished(run.Id)
			Expect(final.Fulfilled).To(Equal(1))
			Expect(final.Total).To(Equal(2))
		})

		It("should return 404 for a run that is not live", func() {
			w := do(http.MethodPost, "/api/v1/runs/missing/stop", nil)
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Context("GET /jobs/types", func() {
		It("should list registered types", func() {
			w := do(http.MethodGet, "/api/v1/jobs/types", nil)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(MatchJSON(`{"types":["block","dataProcess","email"]}`))
		})
	})
})
