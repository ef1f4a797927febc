package thread

import (
    "context"

    "golang.org/x/sync/errgroup"
)

/* goroutines that share one cancellation. the window, the machine and the
 * audio player all live in a group so that any of them can shut down the rest
 */
type ThreadGroup struct {
    group *errgroup.Group
    quit context.Context
    cancel context.CancelFunc
}

type ThreadFuncError func(quit context.Context) error
type ThreadFunc func()

func NewThreadGroup(parent context.Context) *ThreadGroup {
    base, cancel := context.WithCancel(parent)
    group, quit := errgroup.WithContext(base)
    return &ThreadGroup{
        group: group,
        quit: quit,
        cancel: cancel,
    }
}

/* the first non-nil error is kept and cancels the whole group */
func (group *ThreadGroup) SpawnWithError(f ThreadFuncError){
    group.group.Go(func() error {
        return f(group.quit)
    })
}

func (group *ThreadGroup) Spawn(f ThreadFunc) {
    group.group.Go(func() error {
        f()
        return nil
    })
}

func (group *ThreadGroup) Cancel(){
    group.cancel()
}

func (group *ThreadGroup) Context() context.Context {
    return group.quit
}

func (group *ThreadGroup) Done() <-chan struct{} {
    return group.quit.Done()
}

/* waits for every goroutine and returns the first error any of them had */
func (group *ThreadGroup) Wait() error {
    err := group.group.Wait()
    group.cancel()
    return err
}
