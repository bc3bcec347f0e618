/*
Package sortviz records sorting algorithms step by step so a front end can replay them.

A run turns a small integer array into an ordered, randomly addressable sequence of
snapshots. Each snapshot carries the working array, two index markers, the indices
considered settled, a completion flag and an animation tag. Counting sort adds its
counter table and a visibility mask.

# Concept

The engines (bubble, insertion, selection, counting) are pure: the same input always
yields the same steps. The Engine keeps one current run per session in a pluggable
RunStore, so concurrent users never see each other's steps. Delivery adapters (HTTP,
MCP, the terminal player) sit on top and never reach into the engines directly.

# Usage

	eng, err := sortviz.New()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	summary, err := eng.Init(ctx, "session-1", "insertion", []int{3, 1, 2})
	if err != nil {
		log.Fatal(err)
	}

	for i := 0; i < summary.TotalSteps; i++ {
		resp, _ := eng.Step(ctx, "session-1", i)
		fmt.Println(resp.State.Animation, resp.State.Array)
	}

Use Produce instead of Init when the caller wants to own the run and needs no session.
*/
package sortviz
