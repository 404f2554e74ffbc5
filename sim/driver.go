// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package sim implements the Driver main loop from spec.md §4.10,
// component C11: CheckBoundaries -> RefreshGhosts+tree rebuild/stock ->
// per-cell smoothing/density -> force update -> integrator kick/drift ->
// diagnostics -> snapshot scheduling.
package sim

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/cpmech/lagoon/config"
	"github.com/cpmech/lagoon/diagnostics"
	"github.com/cpmech/lagoon/domain"
	"github.com/cpmech/lagoon/eos"
	"github.com/cpmech/lagoon/ewald"
	"github.com/cpmech/lagoon/ghost"
	"github.com/cpmech/lagoon/gravity"
	"github.com/cpmech/lagoon/hydro/gradh"
	"github.com/cpmech/lagoon/hydro/mfv"
	"github.com/cpmech/lagoon/integrate"
	"github.com/cpmech/lagoon/kernel"
	"github.com/cpmech/lagoon/nbody"
	"github.com/cpmech/lagoon/neighbor"
	"github.com/cpmech/lagoon/particle"
	"github.com/cpmech/lagoon/riemann"
	"github.com/cpmech/lagoon/simerr"
	"github.com/cpmech/lagoon/smoothing"
	"github.com/cpmech/lagoon/snapshot"
	"github.com/cpmech/lagoon/tree"
	"github.com/cpmech/lagoon/vecd"
)

// Driver owns every collaborator wired up for one run and advances the
// simulation sub-step by sub-step.
type Driver struct {
	Params *config.Params
	Box    *domain.Box
	Store  *particle.Store

	kernel kernel.Kernel
	eos    eos.EOS
	ghostEngine *ghost.Engine
	smoother    *smoothing.Solver
	gradhEngine *gradh.Engine
	mfvEngine   *mfv.Engine
	riemann     riemann.Solver
	gravEngine  *gravity.Engine
	nbodyEngine *nbody.Engine
	ladder      integrate.Ladder
	collector   *diagnostics.Collector

	log logrus.FieldLogger

	t           float64
	tsnapnext   float64
	nsteps      int
	snapCounter int
	interrupted bool
	outDir      string
}

// New builds a fully wired Driver from validated params, a domain box
// and an already-populated particle store (the IC generator's output,
// spec.md §1).
func New(p *config.Params, box *domain.Box, store *particle.Store) (*Driver, error) {
	k, err := kernel.New(p.Kernel, p.Ndim, p.Tabulated)
	if err != nil {
		return nil, err
	}
	gasEOS, err := eos.New(p.GasEOS, p.GammaEOS)
	if err != nil {
		return nil, err
	}
	d := &Driver{
		Params:      p,
		Box:         box,
		Store:       store,
		kernel:      k,
		eos:         gasEOS,
		ghostEngine: ghost.NewEngine(box, k.Range()),
		smoother:    smoothing.NewSolver(p.Ndim, k, 1.2, p.HConverge),
		collector:   diagnostics.NewCollector(p.Ndim),
		ladder:      integrate.Ladder{Nlevels: p.Nlevels, DtMax: p.Tend},
		riemann:     riemann.HLLC{},
		tsnapnext:   p.TsnapFirst,
		log:         logrus.StandardLogger(),
	}
	if d.ladder.Nlevels <= 0 {
		d.ladder.Nlevels = 1
	}

	if p.SelfGravity {
		d.gravEngine = &gravity.Engine{Ndim: p.Ndim, G: 1.0, Kernel: k, Multipole: multipoleOf(p.Multipole)}
		if box.PeriodicGravity {
			d.gravEngine.Periodic = ewald.NewTable(p.Ndim, box.BoxSize, 1.0)
		}
	}
	if p.Nstar > 0 {
		d.nbodyEngine = &nbody.Engine{Ndim: p.Ndim, G: 1.0}
	}

	switch p.SPH {
	case "mfv_mm", "mfv_rk":
		d.mfvEngine = &mfv.Engine{Ndim: p.Ndim, Kernel: k}
	default:
		av, err := gradh.NewAVisc(p.AVisc)
		if err != nil {
			return nil, err
		}
		ac, err := gradh.NewACond(p.ACond)
		if err != nil {
			return nil, err
		}
		d.gradhEngine = &gradh.Engine{Ndim: p.Ndim, Kernel: k, EOS: gasEOS, AVisc: av, ACond: ac, Alpha: p.AlphaVisc, Beta: p.BetaVisc}
	}

	return d, nil
}

// Resume advances a freshly-built Driver's clock and snapshot cadence to
// match a prior run resumed from a snapshot at startTime/startStep
// (spec.md §6: a resumed run continues the same tsnapfirst/dt_snap
// cadence from wherever the snapshot left off).
func (d *Driver) Resume(startTime float64, startStep int) {
	d.t = startTime
	d.nsteps = startStep
	for d.tsnapnext <= d.t {
		d.tsnapnext += d.Params.DtSnap
	}
}

// leafCapacity picks the tree's per-leaf particle capacity: the
// configured Nleafmax for the partitioned "kdtree"/"octtree" searches,
// or every occupied slot for "brute" (spec.md §6's third neib_search
// token). A leaf capacity at least as large as n keeps tree.Build from
// ever splitting, so the single root leaf holds every particle and
// every neighbor/gravity query exhaustively scans it instead of
// walking a partitioned tree.
func (d *Driver) leafCapacity(n int) int {
	if d.Params.NeibSearch == "brute" {
		if n < 1 {
			n = 1
		}
		return n
	}
	return d.Params.Nleafmax
}

func multipoleOf(token string) gravity.Multipole {
	switch token {
	case "quadrupole":
		return gravity.Quadrupole
	case "fast_monopole":
		return gravity.FastMonopole
	case "fast_quadrupole":
		return gravity.FastQuadrupole
	default:
		return gravity.Monopole
	}
}

// Interrupt flips the cooperative cancellation flag checked between
// sub-steps (spec.md §5).
func (d *Driver) Interrupt() { d.interrupted = true }

// Run advances the simulation until t>=tend or Nsteps>=Nstepsmax,
// writing snapshot files into outDir at the configured cadence.
func (d *Driver) Run(nstepsmax int, outDir string) error {
	d.outDir = outDir
	for d.t < d.Params.Tend && (nstepsmax <= 0 || d.nsteps < nstepsmax) {
		if d.interrupted {
			d.log.WithField("step", d.nsteps).Info("user interrupt, stopping cleanly")
			return nil
		}
		if err := d.SubStep(); err != nil {
			if se, ok := err.(*simerr.SimError); ok {
				d.log.WithFields(logrus.Fields{
					"step": se.Step, "particle": se.ParticleID, "kind": se.Kind.String(),
				}).Error(se.Detail)
			}
			return err
		}
	}
	return nil
}

// SubStep performs one Driver main-loop iteration (spec.md §4.10).
func (d *Driver) SubStep() error {
	dt := d.ladder.DtLevel(0)

	d.checkBoundaries()

	if err := d.ghostEngine.RefreshGhosts(d.Store, d.nsteps); err != nil {
		return err
	}

	all := d.Store.All()
	t := tree.Build(all, d.Params.Ndim, d.leafCapacity(len(all)), d.gravEngine != nil && multipoleOf(d.Params.Multipole) != gravity.Monopole)

	mgr := neighbor.NewManager(64)
	if err := d.updateSmoothingAndDensity(t, mgr); err != nil {
		return err
	}

	maxLevelNeib, err := d.computeForces(t, mgr)
	if err != nil {
		return err
	}

	scheme := schemeOf(d.Params.SPHIntegration)
	if scheme == integrate.RungeKutta {
		maxLevelNeib, err = d.rkStep(t, dt)
		if err != nil {
			return err
		}
	} else {
		d.kickDrift(dt, scheme)
	}

	if err := d.advanceStars(dt); err != nil {
		return err
	}

	for _, i := range d.Store.ActiveIndices() {
		p := d.Store.Real(i)
		p.LevelNeib = maxLevelNeib
	}

	snap := d.collector.Evaluate(d.t, d.Store.All())
	if len(d.Store.Stars) > 0 {
		stars := make([]particle.Star, len(d.Store.Stars))
		for i, s := range d.Store.Stars {
			stars[i] = *s
		}
		snap = d.collector.AddStars(snap, stars)
	}
	_ = d.collector.RelativeEnergyError(snap)

	d.t += dt
	d.nsteps++

	if d.t >= d.tsnapnext {
		d.emitSnapshot()
		d.tsnapnext += d.Params.DtSnap
	}

	return nil
}

func (d *Driver) checkBoundaries() {
	for _, p := range d.Store.All() {
		if !p.Alive || !p.Ghost.IsReal() {
			continue
		}
		d.Box.WrapOrReflect(&p.R, &p.V)
	}
}

func (d *Driver) updateSmoothingAndDensity(t *tree.Tree, mgr *neighbor.Manager) error {
	cells := t.ComputeActiveCellList()
	for _, cell := range cells {
		if err := d.smoother.SolveCell(d.nsteps, t, cell, mgr, nil); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) computeForces(t *tree.Tree, hydroMgr *neighbor.Manager) (int, error) {
	cells := t.ComputeActiveCellList()
	maxLevelNeib := 0
	mac := tree.MAC{ThetaMaxSqd: d.Params.ThetaMaxSqd}
	gravMgr := neighbor.NewManager(64)

	if d.Params.HydroForces && d.mfvEngine != nil {
		// refresh every particle's MFV primitive vector W = (rho, v, P)
		// from its current density, velocity and EOS pressure before any
		// slope, gradient or flux evaluation reads it
		for _, p := range t.Particles {
			press, _ := d.eos.PressureU(p.Rho, p.U)
			p.MFV.W = [5]float64{p.Rho, p.V[0], p.V[1], p.V[2], press}
		}
	}

	riemannSolver := d.riemann

	var starsSnapshot []particle.Star
	if d.gravEngine != nil && len(d.Store.Stars) > 0 {
		starsSnapshot = make([]particle.Star, len(d.Store.Stars))
		for i, s := range d.Store.Stars {
			starsSnapshot[i] = *s
		}
	}

	for _, cell := range cells {
		actives := t.ComputeActiveParticleList(cell)
		hmax := t.Nodes[cell].Hmax
		t.ComputeNeighborAndGhostList(cell, d.kernel.Range(), hmax, hydroMgr)
		rawCandidates := append([]int(nil), hydroMgr.HydroIDs()...)

		var nearParts, directParts []*particle.Particle
		var cellIDs []int
		var fastField gravity.FastCellField
		useFastField := d.gravEngine != nil && (d.gravEngine.Multipole == gravity.FastMonopole || d.gravEngine.Multipole == gravity.FastQuadrupole)
		if d.gravEngine != nil {
			t.ComputeGravityInteractionAndGhostList(cell, d.kernel.Range(), mac, gravMgr)
			nearParts = idsToParts(t, gravMgr.HydroIDs())
			directParts = idsToParts(t, gravMgr.DirectIDs())
			cellIDs = append([]int(nil), gravMgr.CellIDs()...)
			if useFastField {
				// "fast_monopole"/"fast_quadrupole" evaluate the cell field
				// once per leaf at its geometric center, then extrapolate to
				// each active particle via a first-order Taylor expansion
				// (spec.md §4.3(d), §4.8), instead of re-summing cellIDs once
				// per active particle.
				fastField = d.gravEngine.ComputeFastCellField(t.CellCenter(cell), t, cellIDs)
			}
		}

		// pre-pass: geometry that every active particle in the cell needs
		// before any pairwise force sum (spec.md §4.6/§4.7 step ordering).
		neighOf := make(map[int][]*particle.Particle, len(actives))
		for _, gidx := range actives {
			neighIDs := t.EndSearch(gidx, d.kernel.Range(), append([]int(nil), rawCandidates...))
			neighParts := make([]*particle.Particle, len(neighIDs))
			for k, j := range neighIDs {
				neighParts[k] = t.Particles[j]
			}
			neighOf[gidx] = neighParts

			if d.Params.HydroForces {
				switch {
				case d.gradhEngine != nil:
					d.gradhEngine.UpdatePressureAndSoundSpeed(t.Particles[gidx])
				case d.mfvEngine != nil:
					self := t.Particles[gidx]
					d.mfvEngine.ComputeSlopeExtrema(self, neighParts)
					nDen, bmat := d.mfvEngine.ComputePsi(self, neighParts)
					self.MFV.Bmat = bmat
					if nDen > 0 {
						self.MFV.Volume = 1.0 / nDen
					}
					d.mfvEngine.ComputeGradients(self, neighParts, nDen, bmat)
				}
			}
		}

		for _, gidx := range actives {
			self := t.Particles[gidx]
			neighParts := neighOf[gidx]

			var accel [3]float64
			var dudt float64
			var levelneib int

			if d.Params.HydroForces {
				switch {
				case d.gradhEngine != nil:
					pressOf := func(p *particle.Particle) float64 {
						return d.gradhEngine.UpdatePressureAndSoundSpeed(p)
					}
					accel, dudt, levelneib = d.gradhEngine.ComputeForces(self, neighParts, pressOf)
				case d.mfvEngine != nil:
					selfNDen, selfBmat := 0.0, self.MFV.Bmat
					if self.MFV.Volume > 0 {
						selfNDen = 1.0 / self.MFV.Volume
					}
					var dq [5]float64
					for _, j := range neighParts {
						jNDen, jBmat := 0.0, j.MFV.Bmat
						if j.MFV.Volume > 0 {
							jNDen = 1.0 / j.MFV.Volume
						}
						psiJatI := d.mfvEngine.PsiTilde(self, selfNDen, selfBmat, j)
						psiIatJ := d.mfvEngine.PsiTilde(j, jNDen, jBmat, self)
						dqi, _, ferr := d.mfvEngine.PairFlux(d.Params.GammaEOS, riemannSolver, self, j, psiJatI, psiIatJ, d.nsteps)
						if ferr != nil {
							return maxLevelNeib, ferr
						}
						for a := 0; a < 5; a++ {
							dq[a] += dqi[a]
						}
						if j.Level > levelneib {
							levelneib = j.Level
						}
					}
					if self.M > 0 {
						for k := 0; k < d.Params.Ndim; k++ {
							accel[k] = dq[1+k] / self.M
						}
						dudt = dq[4] / self.M
					}
					levelneib = maxInt(levelneib, self.Level)
				}
			}

			if d.gravEngine != nil {
				d.gravEngine.G = 1.0
				aNear, phiNear := d.gravEngine.PairGravity(self, nearParts)
				aDirect, phiDirect := d.gravEngine.DirectGravity(self, directParts)
				var aCell [3]float64
				var phiCell float64
				if useFastField {
					aCell, phiCell = d.gravEngine.ApplyFastField(fastField, self.R)
				} else {
					aCell, phiCell = d.gravEngine.CellGravity(self, t, cellIDs)
				}
				for k := 0; k < d.Params.Ndim; k++ {
					accel[k] += aNear[k] + aDirect[k] + aCell[k]
				}
				self.Phi = phiNear + phiDirect + phiCell

				if len(starsSnapshot) > 0 {
					aStar, phiStar := d.gravEngine.StarGravity(self, starsSnapshot)
					for k := 0; k < d.Params.Ndim; k++ {
						accel[k] += aStar[k]
					}
					self.Phi += phiStar
				}
			}

			self.A = accel
			self.DUdt = dudt
			if levelneib > maxLevelNeib {
				maxLevelNeib = levelneib
			}
		}
	}
	return maxLevelNeib, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func idsToParts(t *tree.Tree, ids []int) []*particle.Particle {
	out := make([]*particle.Particle, len(ids))
	for i, id := range ids {
		out[i] = t.Particles[id]
	}
	return out
}

// advanceStars feeds the fluid's gravitational pull on the star array,
// evaluated once from the fluid positions after this sub-step's
// kickDrift and held fixed over the step, to the N-body collaborator and
// writes the advanced star state back to the store (spec.md §4.8(e),
// §6's N-body integrator interface).
func (d *Driver) advanceStars(dt float64) error {
	if d.nbodyEngine == nil || len(d.Store.Stars) == 0 {
		return nil
	}
	stars := make([]particle.Star, len(d.Store.Stars))
	for i, s := range d.Store.Stars {
		stars[i] = *s
	}
	var extAccel []vecd.V
	if d.gravEngine != nil {
		extAccel = d.gravEngine.GravityOnStars(stars, d.Store.All())
	} else {
		extAccel = make([]vecd.V, len(stars))
	}
	if err := d.nbodyEngine.Advance(stars, extAccel, dt); err != nil {
		return err
	}
	for i := range d.Store.Stars {
		*d.Store.Stars[i] = stars[i]
	}
	return nil
}

func (d *Driver) kickDrift(dt float64, scheme integrate.Scheme) {
	for _, i := range d.Store.ActiveIndices() {
		p := d.Store.Real(i)
		integrate.KickDrift(p, dt, scheme, false)
	}
}

// rkPredictedState saves a particle's t0 state across the Runge-Kutta
// predictor half-step, so rkStep can restore it before applying the
// full-step correction (spec.md §4.9).
type rkPredictedState struct {
	r, v vecd.V
	u    float64
}

// rkStep performs the MFV two-stage Runge-Kutta sub-step (spec.md
// §4.9): predict every active particle to t+dt/2 using the rates
// already computed at t, refresh ghost *state* (not the ghost list
// itself, which stays valid for a half-step predictor move) and
// re-stock the existing tree at the predicted positions, recompute
// fluxes there, then correct every active particle back to its saved
// t0 state and apply the full step using the midpoint-evaluated rates.
func (d *Driver) rkStep(t *tree.Tree, dt float64) (int, error) {
	active := d.Store.ActiveIndices()
	saved := make(map[int]rkPredictedState, len(active))
	for _, i := range active {
		p := d.Store.Real(i)
		sr, sv, su := integrate.RKPredict(p, dt)
		saved[i] = rkPredictedState{r: sr, v: sv, u: su}
	}

	d.ghostEngine.CopyStateToGhosts(d.Store)
	t.Stock()

	mgrMid := neighbor.NewManager(64)
	if err := d.updateSmoothingAndDensity(t, mgrMid); err != nil {
		return 0, err
	}
	maxLevelNeib, err := d.computeForces(t, mgrMid)
	if err != nil {
		return 0, err
	}

	for _, i := range active {
		p := d.Store.Real(i)
		s := saved[i]
		integrate.RKCorrect(p, dt, s.r, s.v, s.u)
	}
	return maxLevelNeib, nil
}

func schemeOf(token string) integrate.Scheme {
	switch token {
	case "lfdkd":
		return integrate.LeapfrogDKD
	case "rk":
		return integrate.RungeKutta
	default:
		return integrate.LeapfrogKDK
	}
}

func (d *Driver) emitSnapshot() {
	dir := d.outDir
	if dir == "" {
		dir = "."
	}
	path := dir + string(os.PathSeparator) + snapshotPath(d.snapCounter)
	d.snapCounter++
	f, err := os.Create(path)
	if err != nil {
		d.log.WithError(err).Warn("snapshot write failed")
		return
	}
	defer f.Close()
	hdr := snapshot.Header{Time: d.t, Ndim: d.Params.Ndim, Nhydro: d.Store.Nreal}
	if err := snapshot.WriteColumn(f, hdr, d.Store.Particles[:d.Store.Nreal]); err != nil {
		d.log.WithError(err).Warn("snapshot encode failed")
	}
}

func snapshotPath(counter int) string {
	return "snap_" + itoa(counter) + ".out"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
