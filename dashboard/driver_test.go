package dashboard_test

import (
	"context"
	"errors"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gstruct"
	"go.uber.org/fx/fxtest"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/tidepool-org/vitals/chart"
	chartTest "github.com/tidepool-org/vitals/chart/test"
	"github.com/tidepool-org/vitals/dashboard"
	dashboardTest "github.com/tidepool-org/vitals/dashboard/test"
	errs "github.com/tidepool-org/vitals/errors"
	"github.com/tidepool-org/vitals/source"
	sourceTest "github.com/tidepool-org/vitals/source/test"
	"github.com/tidepool-org/vitals/summary"
	"github.com/tidepool-org/vitals/test"
	"github.com/tidepool-org/vitals/vitals"
)

var now = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

const structuredPayload = `{"patients": [
	{"name": "Emily Williams"},
	{"name": "Jessica Taylor", "age": 28, "gender": "Female", "id": 42, "phone": "(555) 000-1111",
	 "vitals": [{"year": 2018, "systolic": 125, "diastolic": 82}, {"year": 2017, "systolic": 120, "diastolic": 80}]}
]}`

var _ = Describe("Driver", func() {
	var ctrl *gomock.Controller
	var client *sourceTest.MockClient
	var presenter *dashboardTest.MockPresenter
	var lifecycle *fxtest.Lifecycle
	var slot *chart.Slot
	var renderer chart.Renderer
	var driver *dashboard.Driver

	newDriver := func() *dashboard.Driver {
		return dashboard.NewDriver(dashboard.Params{
			Config:    dashboard.Config{Target: "Jessica Taylor"},
			Source:    client,
			Renderer:  renderer,
			Slot:      slot,
			Presenter: presenter,
			Logger:    zap.NewNop().Sugar(),
		}).WithClock(func() time.Time { return now })
	}

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		client = sourceTest.NewMockClient(ctrl)
		presenter = dashboardTest.NewMockPresenter(ctrl)
		lifecycle = fxtest.NewLifecycle(GinkgoT())
		slot = chart.NewSlot(zap.NewNop().Sugar(), lifecycle)

		var err error
		renderer, err = chart.NewSVGRenderer(chart.DefaultConfig(), zap.NewNop().Sugar())
		Expect(err).ToNot(HaveOccurred())

		driver = newDriver()
		lifecycle.RequireStart()
	})

	AfterEach(func() {
		lifecycle.RequireStop()
		ctrl.Finish()
	})

	When("the patient has structured vitals", func() {
		BeforeEach(func() {
			client.EXPECT().Fetch(gomock.Any()).Return(test.MustDecode(structuredPayload), nil)
		})

		It("publishes the display, series and chart", func() {
			presenter.EXPECT().Present(gomock.Any(), gomock.Any()).Return(nil)

			snapshot, err := driver.Run(context.Background())
			Expect(err).ToNot(HaveOccurred())
			Expect(snapshot.CycleId).ToNot(BeEmpty())
			Expect(snapshot.Notice).To(BeNil())
			Expect(snapshot.VitalsSource).To(Equal(vitals.SourcePrimary))
			Expect(snapshot.Series.Labels()).To(Equal([]string{"2017", "2018"}))
			Expect(snapshot.Display).To(MatchFields(IgnoreExtras, Fields{
				"Found": BeTrue(),
				"Name":  Equal("Jessica Taylor"),
				"Meta":  Equal("28 • Female • 42"),
			}))
			value, _ := snapshot.Display.Detail(summary.LabelPhone)
			Expect(value).To(Equal("(555) 000-1111"))

			Expect(snapshot.Chart).ToNot(BeNil())
			Expect(slot.Current()).ToNot(BeNil())
			Expect(slot.Current().Id).To(Equal(snapshot.Chart.Id))

			latest, ok := driver.Latest()
			Expect(ok).To(BeTrue())
			Expect(latest.CycleId).To(Equal(snapshot.CycleId))
		})

		It("passes the snapshot to the presenter", func() {
			var presented dashboard.Snapshot
			presenter.EXPECT().
				Present(gomock.Any(), test.MatchDescribed("snapshot of a found patient", func(s dashboard.Snapshot) bool { return s.Display.Found })).
				DoAndReturn(func(_ context.Context, s dashboard.Snapshot) error {
					presented = s
					return nil
				})

			snapshot, err := driver.Run(context.Background())
			Expect(err).ToNot(HaveOccurred())
			Expect(presented.CycleId).To(Equal(snapshot.CycleId))
		})

		It("completes the cycle when presenting fails", func() {
			presenter.EXPECT().Present(gomock.Any(), gomock.Any()).Return(errors.New("closed"))
			_, err := driver.Run(context.Background())
			Expect(err).ToNot(HaveOccurred())
		})
	})

	It("falls back to measurements", func() {
		client.EXPECT().Fetch(gomock.Any()).Return(test.LoadPayload("test/fixtures/patients_fallback.json"), nil)
		presenter.EXPECT().Present(gomock.Any(), gomock.Any()).Return(nil)

		snapshot, err := driver.Run(context.Background())
		Expect(err).ToNot(HaveOccurred())
		Expect(snapshot.VitalsSource).To(Equal(vitals.SourceFallback))
		Expect(snapshot.Series).To(Equal(vitals.Series{
			{Period: vitals.YearPeriod(2020), Systolic: 130, Diastolic: 85},
			{Period: vitals.YearPeriod(2021), Systolic: 126, Diastolic: 82},
		}))
		Expect(snapshot.Notice).To(BeNil())
		Expect(snapshot.Chart).ToNot(BeNil())
		Expect(snapshot.Display.Meta).To(Equal("1996 • F • JT-1996"))
		value, _ := snapshot.Display.Detail(summary.LabelAddress)
		Expect(value).To(Equal("Mechanicsville, VA"))
	})

	It("charts a single fallback measurement", func() {
		client.EXPECT().Fetch(gomock.Any()).Return(test.MustDecode(`[{
			"name": "Jessica Taylor",
			"measurements": [{"type": "BP check", "year": 2020, "systolic": 130, "diastolic": 85}]
		}]`), nil)
		presenter.EXPECT().Present(gomock.Any(), gomock.Any()).Return(nil)

		snapshot, err := driver.Run(context.Background())
		Expect(err).ToNot(HaveOccurred())
		Expect(snapshot.VitalsSource).To(Equal(vitals.SourceFallback))
		Expect(snapshot.Series).To(Equal(vitals.Series{
			{Period: vitals.YearPeriod(2020), Systolic: 130, Diastolic: 85},
		}))
		Expect(snapshot.Notice).To(BeNil())
		Expect(snapshot.Chart).ToNot(BeNil())
		Expect(string(slot.Current().SVG())).To(ContainSubstring("2020"))
	})

	It("charts a single yearly reading", func() {
		client.EXPECT().Fetch(gomock.Any()).Return(test.MustDecode(`[{
			"name": "Jessica Taylor",
			"vitals": {"yearly": {"2019": {"systolic": 118, "diastolic": 76}}}
		}]`), nil)
		presenter.EXPECT().Present(gomock.Any(), gomock.Any()).Return(nil)

		snapshot, err := driver.Run(context.Background())
		Expect(err).ToNot(HaveOccurred())
		Expect(snapshot.VitalsSource).To(Equal(vitals.SourcePrimary))
		Expect(snapshot.Series).To(HaveLen(1))
		Expect(snapshot.Notice).To(BeNil())
		Expect(snapshot.Chart).ToNot(BeNil())
	})

	It("renders an empty chart without readings", func() {
		client.EXPECT().Fetch(gomock.Any()).Return(test.MustDecode(`[{"name": "Jessica Taylor"}]`), nil)
		presenter.EXPECT().Present(gomock.Any(), gomock.Any()).Return(nil)

		snapshot, err := driver.Run(context.Background())
		Expect(err).ToNot(HaveOccurred())
		Expect(snapshot.VitalsSource).To(Equal(vitals.SourceNone))
		Expect(snapshot.Series).To(BeEmpty())
		Expect(snapshot.Notice).To(BeNil())
		Expect(snapshot.Chart).ToNot(BeNil())
		Expect(string(slot.Current().SVG())).To(ContainSubstring("No blood pressure readings"))
	})

	When("the target is not in the payload", func() {
		It("publishes the placeholder with a warning and no chart", func() {
			client.EXPECT().Fetch(gomock.Any()).Return(test.MustDecode(structuredPayload), nil)
			client.EXPECT().Fetch(gomock.Any()).Return(test.MustDecode(`{"patients": [{"name": "Emily Williams"}]}`), nil)
			presenter.EXPECT().Present(gomock.Any(), gomock.Any()).Return(nil).Times(2)

			first, err := driver.Run(context.Background())
			Expect(err).ToNot(HaveOccurred())
			Expect(first.Chart).ToNot(BeNil())
			previous := slot.Current()

			snapshot, err := driver.Run(context.Background())
			Expect(err).ToNot(HaveOccurred())
			Expect(snapshot.Display).To(Equal(summary.NotFound()))
			Expect(snapshot.Series).To(BeEmpty())
			Expect(snapshot.Chart).To(BeNil())
			Expect(snapshot.Notice).To(PointTo(Equal(dashboard.Notice{
				Level:   dashboard.LevelWarning,
				Message: "Jessica Taylor not found in API response. Make sure the API returns the patient list and that authentication is correct.",
			})))
			Expect(previous.Released()).To(BeTrue())
			Expect(slot.Current()).To(BeNil())
		})

		It("publishes the placeholder and fails when configured to", func() {
			driver = dashboard.NewDriver(dashboard.Params{
				Config:    dashboard.Config{Target: "Jessica Taylor", FailOnNotFound: true},
				Source:    client,
				Renderer:  renderer,
				Slot:      slot,
				Presenter: presenter,
				Logger:    zap.NewNop().Sugar(),
			})

			client.EXPECT().Fetch(gomock.Any()).Return(test.MustDecode(`[{"name": "Emily Williams"}]`), nil)
			presenter.EXPECT().Present(gomock.Any(), gomock.Any()).Return(nil)

			snapshot, err := driver.Run(context.Background())
			Expect(err).To(MatchError(errs.NotFound))
			Expect(snapshot.Display.Found).To(BeFalse())

			latest, ok := driver.Latest()
			Expect(ok).To(BeTrue())
			Expect(latest.CycleId).To(Equal(snapshot.CycleId))
		})

		It("does not render a chart", func() {
			mockRenderer := chartTest.NewMockRenderer(ctrl)
			renderer = mockRenderer
			driver = newDriver()

			client.EXPECT().Fetch(gomock.Any()).Return([]any{}, nil)
			presenter.EXPECT().Present(gomock.Any(), gomock.Any()).Return(nil)
			mockRenderer.EXPECT().Render(gomock.Any()).Times(0)

			_, err := driver.Run(context.Background())
			Expect(err).ToNot(HaveOccurred())
		})
	})

	When("fetching fails", func() {
		It("keeps the previous display and reports the error", func() {
			client.EXPECT().Fetch(gomock.Any()).Return(test.MustDecode(structuredPayload), nil)
			client.EXPECT().Fetch(gomock.Any()).Return(nil, &source.TransportError{StatusCode: 500, Body: "boom"})
			presenter.EXPECT().Present(gomock.Any(), gomock.Any()).Return(nil).Times(2)

			first, err := driver.Run(context.Background())
			Expect(err).ToNot(HaveOccurred())

			snapshot, err := driver.Run(context.Background())
			Expect(err).To(MatchError(errs.TransportFailure))
			Expect(snapshot.CycleId).ToNot(Equal(first.CycleId))
			Expect(snapshot.Notice).To(PointTo(Equal(dashboard.Notice{
				Level:   dashboard.LevelError,
				Message: "Error fetching patient data: API Error: 500 - boom",
			})))
			Expect(snapshot.Display).To(Equal(first.Display))
			Expect(snapshot.Series).To(Equal(first.Series))
			Expect(snapshot.Chart).To(Equal(first.Chart))
			Expect(slot.Current().Released()).To(BeFalse())

			latest, _ := driver.Latest()
			Expect(latest.Notice.Blocking()).To(BeTrue())
			Expect(latest).To(Equal(snapshot))
		})

		It("publishes an empty display on the first cycle", func() {
			client.EXPECT().Fetch(gomock.Any()).Return(nil, errs.TransportFailure)
			presenter.EXPECT().Present(gomock.Any(), gomock.Any()).Return(nil)

			snapshot, err := driver.Run(context.Background())
			Expect(err).To(HaveOccurred())
			Expect(snapshot.Display.Found).To(BeFalse())
			Expect(snapshot.Chart).To(BeNil())
			Expect(snapshot.Notice.Level).To(Equal(dashboard.LevelError))
		})
	})

	It("reports chart failures without aborting the cycle", func() {
		mockRenderer := chartTest.NewMockRenderer(ctrl)
		renderer = mockRenderer
		driver = newDriver()

		client.EXPECT().Fetch(gomock.Any()).Return(test.MustDecode(structuredPayload), nil)
		presenter.EXPECT().Present(gomock.Any(), gomock.Any()).Return(nil)
		mockRenderer.EXPECT().Render(gomock.Any()).Return(nil, errors.New("no fonts"))

		snapshot, err := driver.Run(context.Background())
		Expect(err).ToNot(HaveOccurred())
		Expect(snapshot.Display.Found).To(BeTrue())
		Expect(snapshot.Chart).To(BeNil())
		Expect(snapshot.Notice.Level).To(Equal(dashboard.LevelError))
		Expect(snapshot.Notice.Message).To(ContainSubstring("no fonts"))
	})

	It("produces identical results for identical payloads", func() {
		payload := source.NewStaticClient(test.MustDecode(structuredPayload))
		client.EXPECT().Fetch(gomock.Any()).DoAndReturn(payload.Fetch).Times(2)
		presenter.EXPECT().Present(gomock.Any(), gomock.Any()).Return(nil).Times(2)

		first, err := driver.Run(context.Background())
		Expect(err).ToNot(HaveOccurred())
		second, err := driver.Run(context.Background())
		Expect(err).ToNot(HaveOccurred())

		Expect(second.Display).To(Equal(first.Display))
		Expect(second.Series).To(Equal(first.Series))
		Expect(second.Chart.Fingerprint).To(Equal(first.Chart.Fingerprint))
		Expect(second.Chart.Id).ToNot(Equal(first.Chart.Id))
	})

	It("publishes the last completed of overlapping cycles", func() {
		started := make(chan struct{})
		release := make(chan struct{})
		client.EXPECT().Fetch(gomock.Any()).DoAndReturn(func(ctx context.Context) (any, error) {
			close(started)
			<-release
			return test.MustDecode(`[{"name": "Jessica Taylor", "age": 1}]`), nil
		})
		client.EXPECT().Fetch(gomock.Any()).Return(test.MustDecode(`[{"name": "Jessica Taylor", "age": 2}]`), nil)
		presenter.EXPECT().Present(gomock.Any(), gomock.Any()).Return(nil).Times(2)

		wg := sync.WaitGroup{}
		wg.Add(1)
		var slow dashboard.Snapshot
		go func() {
			defer GinkgoRecover()
			defer wg.Done()
			var err error
			slow, err = driver.Run(context.Background())
			Expect(err).ToNot(HaveOccurred())
		}()

		Eventually(started).Should(BeClosed())
		fast, err := driver.Run(context.Background())
		Expect(err).ToNot(HaveOccurred())
		Expect(fast.Display.Meta).To(Equal("2"))

		close(release)
		wg.Wait()

		latest, ok := driver.Latest()
		Expect(ok).To(BeTrue())
		Expect(latest.CycleId).To(Equal(slow.CycleId))
		Expect(latest.Display.Meta).To(Equal("1"))
		Expect(slot.Current().Id).To(Equal(latest.Chart.Id))
	})
})
