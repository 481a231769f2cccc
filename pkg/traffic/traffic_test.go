/*
Copyright The Shipshift Contributors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package traffic

import (
	"github.com/shipshift/deploy-cli/pkg/target"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Ratio parsing", func() {
	It("parses target and total replica counts", func() {
		ratio, err := ParseRatio("1/2")
		Expect(err).ToNot(HaveOccurred())
		Expect(ratio.TargetReplicas).To(BeEquivalentTo(1))
		Expect(ratio.TotalReplicas).To(BeEquivalentTo(2))
		Expect(ratio.String()).To(Equal("1/2"))
	})

	It("accepts a zero target share", func() {
		ratio, err := ParseRatio("0/4")
		Expect(err).ToNot(HaveOccurred())
		Expect(ratio.TargetReplicas).To(BeEquivalentTo(0))
	})

	It("rejects a ratio without a separator", func() {
		_, err := ParseRatio("3")
		Expect(err).To(MatchError(ContainSubstring("must have the form target/total")))
	})

	It("rejects non-numeric replica counts", func() {
		_, err := ParseRatio("one/2")
		Expect(err).To(MatchError(ContainSubstring("must be an integer")))

		_, err = ParseRatio("1/two")
		Expect(err).To(MatchError(ContainSubstring("must be an integer")))
	})

	It("rejects negative replica counts", func() {
		_, err := ParseRatio("-1/2")
		Expect(err).To(MatchError(ContainSubstring("cannot be negative")))
	})

	It("rejects a target share above the total", func() {
		_, err := ParseRatio("3/2")
		Expect(err).To(MatchError(ContainSubstring("cannot exceed the total")))
	})
})

var _ = Describe("Replica split", func() {
	It("gives the remainder to the first deployment after the target", func() {
		assignments, err := Split(
			[]string{"myapp-v2-r41", "myapp-v2-r42", "myapp-v3-r40"},
			"myapp-v3-r40",
			Ratio{TargetReplicas: 1, TotalReplicas: 2},
		)
		Expect(err).ToNot(HaveOccurred())
		Expect(assignments).To(Equal([]Assignment{
			{Name: "myapp-v3-r40", Replicas: 1},
			{Name: "myapp-v2-r42", Replicas: 1},
			{Name: "myapp-v2-r41", Replicas: 0},
		}))
	})

	It("splits evenly between two deployments", func() {
		assignments, err := Split(
			[]string{"myapp-v2-r41", "myapp-v2-r42"},
			"myapp-v2-r42",
			Ratio{TargetReplicas: 1, TotalReplicas: 2},
		)
		Expect(err).ToNot(HaveOccurred())
		Expect(assignments).To(Equal([]Assignment{
			{Name: "myapp-v2-r42", Replicas: 1},
			{Name: "myapp-v2-r41", Replicas: 1},
		}))
	})

	It("assigns the total when the target is the only deployment", func() {
		assignments, err := Split(
			[]string{"myapp-v1-r1"},
			"myapp-v1-r1",
			Ratio{TargetReplicas: 2, TotalReplicas: 2},
		)
		Expect(err).ToNot(HaveOccurred())
		Expect(assignments).To(Equal([]Assignment{
			{Name: "myapp-v1-r1", Replicas: 2},
		}))
	})

	It("drains the target for a zero ratio", func() {
		assignments, err := Split(
			[]string{"myapp-v1-r1", "myapp-v2-r1"},
			"myapp-v2-r1",
			Ratio{TargetReplicas: 0, TotalReplicas: 4},
		)
		Expect(err).ToNot(HaveOccurred())
		Expect(assignments).To(Equal([]Assignment{
			{Name: "myapp-v2-r1", Replicas: 0},
			{Name: "myapp-v1-r1", Replicas: 4},
		}))
	})

	It("always assigns the full total across the deployments", func() {
		names := []string{"myapp-v1-r10", "myapp-v1-r11", "myapp-v1-r12", "myapp-v1-r9"}
		for _, targetName := range names {
			assignments, err := Split(names, targetName,
				Ratio{TargetReplicas: 2, TotalReplicas: 5})
			Expect(err).ToNot(HaveOccurred())

			var sum int32
			for _, assignment := range assignments {
				sum += assignment.Replicas
			}
			Expect(sum).To(BeEquivalentTo(5))
		}
	})

	It("does not depend on the order the deployments were listed in", func() {
		shuffled := []string{"myapp-v3-r40", "myapp-v2-r41", "myapp-v2-r42"}
		assignments, err := Split(shuffled, "myapp-v3-r40",
			Ratio{TargetReplicas: 1, TotalReplicas: 2})
		Expect(err).ToNot(HaveOccurred())
		Expect(assignments[0].Name).To(Equal("myapp-v3-r40"))
		Expect(shuffled).To(Equal([]string{"myapp-v3-r40", "myapp-v2-r41", "myapp-v2-r42"}))
	})

	It("refuses to plan when the target deployment is missing", func() {
		assignments, err := Split(
			[]string{"myapp-v2-r41", "myapp-v2-r42"},
			"myapp-v3-r40",
			Ratio{TargetReplicas: 1, TotalReplicas: 2},
		)
		Expect(assignments).To(BeNil())

		var notFound *target.NotFoundError
		Expect(err).To(BeAssignableToTypeOf(notFound))
		Expect(err.(*target.NotFoundError).Name).To(Equal("myapp-v3-r40"))
	})
})
